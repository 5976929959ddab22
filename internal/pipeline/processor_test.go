package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/doctext"
	"github.com/joseph-ayodele/agm-extractor/internal/repository"
)

const sampleText = `Annual General Meeting 2024
Proposal Proxy Year: 2024
Proposal Text: "Ratify the appointment of auditors"
For votes: 1,200 Against votes: 300 Abstained votes: 10 Broker Non-Votes: Nil
Individual:
  Jane Doe
Director Votes For: 900 Director Votes Against: 100 Director Votes Broker-Non-Votes: -
`

type failingExtractor struct{ err error }

func (f failingExtractor) Extract(context.Context, string, []byte) (doctext.ExtractionResult, error) {
	return doctext.ExtractionResult{}, f.err
}

// cancelAfterExtract cancels the request once text extraction has finished.
type cancelAfterExtract struct {
	next   TextExtractor
	cancel context.CancelFunc
}

func (c cancelAfterExtract) Extract(ctx context.Context, name string, content []byte) (doctext.ExtractionResult, error) {
	res, err := c.next.Extract(ctx, name, content)
	c.cancel()
	return res, err
}

func newRuns(t *testing.T) repository.RunRepository {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: filepath.Join(t.TempDir(), "runs.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	return repository.NewRunRepository(db, nil)
}

func TestProcess_TextDocument(t *testing.T) {
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)

	res, err := p.Process(context.Background(), Document{Name: "agm.txt", Content: []byte(sampleText)})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, res.RunID)
	assert.Equal(t, "txt", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Empty(t, res.Notices)

	require.Len(t, res.Proposals, 1)
	assert.Equal(t, "2024", res.Proposals[0].ProxyYear)
	assert.Equal(t, "Approved (1,200 For > 300 Against)", res.Proposals[0].ResolutionOutcome)
	assert.Equal(t, "0", res.Proposals[0].BrokerNonVotes)

	require.Len(t, res.Directors, 1)
	assert.Equal(t, "Jane Doe", res.Directors[0].Individual)
	assert.Equal(t, "0", res.Directors[0].BrokerNonVotes)
}

func TestProcess_NoRecordsAddsBothNotices(t *testing.T) {
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)

	res, err := p.Process(context.Background(), Document{Name: "notes.txt", Content: []byte("minutes of the meeting")})
	require.NoError(t, err)
	assert.Empty(t, res.Proposals)
	assert.Empty(t, res.Directors)
	assert.Equal(t, []string{NoticeNoProposals, NoticeNoDirectors}, res.Notices)
}

func TestProcess_OnlyDirectorsMissing(t *testing.T) {
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)

	res, err := p.Process(context.Background(), Document{Name: "p.txt", Content: []byte("Proposal Proxy Year: 2022")})
	require.NoError(t, err)
	assert.Len(t, res.Proposals, 1)
	assert.Equal(t, []string{NoticeNoDirectors}, res.Notices)
}

func TestProcess_RecordsSuccessfulRun(t *testing.T) {
	runs := newRuns(t)
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), runs)

	res, err := p.Process(context.Background(), Document{Name: "/in/agm.txt", Content: []byte(sampleText)})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.RunID)

	run, err := runs.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "agm.txt", run.SourceName)
	assert.Equal(t, constants.TXT, run.Format)
	assert.Equal(t, string(constants.RunStatusExtracted), run.Status)
	assert.Equal(t, 1, run.Proposals)
	assert.Equal(t, 1, run.Directors)
	assert.Len(t, run.ContentSHA256, 64)
}

func TestProcess_ExtractionFailureIsFatal(t *testing.T) {
	runs := newRuns(t)
	cause := common.UnreadableError("bad.pdf", fmt.Errorf("%w: broken xref", common.ErrUnreadableDocument))
	p := NewProcessor(nil, failingExtractor{err: cause}, runs)

	res, err := p.Process(context.Background(), Document{Name: "bad.pdf", Content: []byte("%PDF-garbage")})
	require.ErrorIs(t, err, common.ErrUnreadableDocument)
	assert.Nil(t, res.Proposals)
	assert.Nil(t, res.Directors)
	assert.Empty(t, res.Notices)

	run, err := runs.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.RunStatusFailed), run.Status)
	assert.Contains(t, run.ErrorMessage, "broken xref")
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{}, nil), nil)

	_, err := p.Process(context.Background(), Document{Name: "agm.docx", Content: []byte("x")})
	require.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestProcess_CancelledDuringParseFailsRun(t *testing.T) {
	runs := newRuns(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	text := cancelAfterExtract{next: doctext.NewExtractor(doctext.Config{}, nil), cancel: cancel}
	p := NewProcessor(nil, text, runs)

	res, err := p.Process(ctx, Document{Name: "agm.txt", Content: []byte(sampleText)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Proposals)
	assert.Nil(t, res.Directors)
	assert.Empty(t, res.Notices)

	run, err := runs.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.RunStatusFailed), run.Status)
	assert.Contains(t, run.ErrorMessage, "context canceled")
}

func TestProcess_NativePDFKeepsLineStructure(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "doctext", "testdata", "agm_lines.pdf"))
	require.NoError(t, err)
	p := NewProcessor(nil, doctext.NewExtractor(doctext.Config{Method: common.MethodNative}, nil), nil)

	res, err := p.Process(context.Background(), Document{Name: "agm.pdf", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "pdf-native", res.Method)

	require.Len(t, res.Proposals, 1)
	assert.Equal(t, "2023", res.Proposals[0].ProxyYear)
	assert.Equal(t, "Approved (1,000 For > 200 Against)", res.Proposals[0].ResolutionOutcome)

	require.Len(t, res.Directors, 1)
	assert.Equal(t, "Jane Doe", res.Directors[0].Individual)
	assert.Equal(t, "900", res.Directors[0].VotesFor)
}
