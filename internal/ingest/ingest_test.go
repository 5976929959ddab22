package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/agm-extractor/internal/async"
	"github.com/joseph-ayodele/agm-extractor/internal/doctext"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

const doc = "Proposal Proxy Year: 2024 For votes: 3 Against votes: 1\nIndividual: Ann Lee\nDirector Votes For: 5"

func newUsecase(t *testing.T, outDir string) *Usecase {
	t.Helper()
	proc := pipeline.NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)
	q := async.NewProcessorQueue(proc, nil, nil, async.WithWorkers(2), async.WithOutputDir(outDir))
	t.Cleanup(func() { q.Shutdown(context.Background()) })
	return NewUsecase(q, nil)
}

func mkfile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "a.txt"), doc)
	mkfile(t, filepath.Join(root, "sub", "b.TXT"), doc)
	mkfile(t, filepath.Join(root, "sub", "empty.txt"), "")
	mkfile(t, filepath.Join(root, "notes.md"), doc)
	mkfile(t, filepath.Join(root, ".hidden", "c.txt"), doc)
	mkfile(t, filepath.Join(root, ".d.txt"), doc)

	u := newUsecase(t, t.TempDir())
	results, stats, err := u.IngestDirectory(context.Background(), root, nil, true)
	require.NoError(t, err)

	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	require.Len(t, results, 3)

	byName := map[string]FileResult{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}
	assert.Equal(t, 1, byName["a.txt"].Proposals)
	assert.Equal(t, 1, byName["a.txt"].Directors)
	assert.NotEmpty(t, byName["b.TXT"].OutputPath)
	assert.NotEmpty(t, byName["empty.txt"].Err)
	assert.Empty(t, byName["empty.txt"].OutputPath)
}

func TestIngestDirectory_IncludeHidden(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, ".hidden", "c.txt"), doc)

	u := newUsecase(t, t.TempDir())
	_, stats, err := u.IngestDirectory(context.Background(), root, []string{".TXT"}, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Matched)
	assert.Equal(t, uint32(1), stats.Succeeded)
}

func TestIngestDirectory_RequiresRoot(t *testing.T) {
	u := newUsecase(t, t.TempDir())
	_, _, err := u.IngestDirectory(context.Background(), " ", nil, true)
	require.Error(t, err)
}

func TestIngestPath(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "agm.txt")
	mkfile(t, src, doc)
	out := t.TempDir()

	fr, err := newUsecase(t, out).IngestPath(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "agm.xlsx"), fr.OutputPath)
	assert.Empty(t, fr.Notices)
}

func TestIngestPath_UnsupportedExtension(t *testing.T) {
	_, err := newUsecase(t, t.TempDir()).IngestPath(context.Background(), "minutes.docx")
	require.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/a/.git"))
	assert.False(t, IsHidden("/a/b.pdf"))
	assert.False(t, IsHidden("."))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "watcher channel closed")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.pdf")
	mkfile(t, existing, "%PDF-1.4")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
		SkipHidden:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, existing, receive(t, evCh))

	mkfile(t, filepath.Join(root, "ignored.md"), "x")
	mkfile(t, filepath.Join(root, ".tmp.txt"), "x")
	created := filepath.Join(root, "new.txt")
	mkfile(t, created, doc)
	assert.Equal(t, created, receive(t, evCh))

	cancel()
	for range evCh {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	require.Error(t, err)
}
