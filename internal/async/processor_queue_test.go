package async

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/doctext"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

const doc = `Proposal Proxy Year: 2023 For votes: 10 Against votes: 2
Individual: John Roe
Director Votes For: 7`

func newQueue(t *testing.T, opts ...Option) *ProcessorQueue {
	t.Helper()
	proc := pipeline.NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)
	q := NewProcessorQueue(proc, nil, nil, opts...)
	t.Cleanup(func() { q.Shutdown(context.Background()) })
	return q
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestProcessorQueue_WritesWorkbook(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeFile(t, in, "agm.txt", doc)
	q := newQueue(t, WithWorkers(2), WithOutputDir(out))

	done := make(chan JobResult, 1)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: src, Done: done}))

	res := <-done
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Proposals)
	assert.Equal(t, 1, res.Directors)
	assert.Empty(t, res.Notices)
	assert.NotEmpty(t, res.Job.TraceID)
	assert.Equal(t, filepath.Join(out, "agm.xlsx"), res.OutputPath)

	f, err := excelize.OpenFile(res.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{constants.ProposalSheet, constants.DirectorSheet}, f.GetSheetList())
}

func TestProcessorQueue_OutputNextToSource(t *testing.T) {
	in := t.TempDir()
	src := writeFile(t, in, "report.txt", "nothing here")
	q := newQueue(t)

	done := make(chan JobResult, 1)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: src, Done: done}))

	res := <-done
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(in, "report.xlsx"), res.OutputPath)
	assert.Equal(t, []string{pipeline.NoticeNoProposals, pipeline.NoticeNoDirectors}, res.Notices)
}

func TestProcessorQueue_FailureWritesNothing(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := writeFile(t, in, "empty.txt", "")
	q := newQueue(t, WithOutputDir(out))

	done := make(chan JobResult, 1)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: src, Done: done}))

	res := <-done
	require.ErrorIs(t, res.Err, common.ErrUnreadableDocument)
	assert.Empty(t, res.OutputPath)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessorQueue_ResultHandlerAndShutdown(t *testing.T) {
	in := t.TempDir()
	var (
		mu   sync.Mutex
		seen []string
	)
	q := newQueue(t, WithWorkers(3), WithQueueSize(1), WithOutputDir(t.TempDir()),
		WithResultHandler(func(r JobResult) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, filepath.Base(r.Job.Path))
		}))

	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: writeFile(t, in, name, doc)}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt", "d.txt"}, seen)

	err := q.Enqueue(context.Background(), Job{Path: "late.txt"})
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestOutputPath(t *testing.T) {
	q := &ProcessorQueue{outDir: "/out"}
	assert.Equal(t, filepath.Join("/out", "agm.2024.xlsx"), q.outputPath("/in/agm.2024.pdf"))
}
