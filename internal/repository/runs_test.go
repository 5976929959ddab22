package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: "sqlite://" + filepath.Join(t.TempDir(), "runs.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	return db
}

func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	require.Error(t, err)
}

func TestHealthCheckAndMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, DialectSQLite, db.Dialect)
	require.NoError(t, db.HealthCheck(context.Background(), time.Second))
	require.NoError(t, db.Migrate(context.Background()))
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DialectPostgres}
	lite := &DB{Dialect: DialectSQLite}
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestRunLifecycle_Success(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), nil)

	run, err := repo.Start(ctx, StartRun{SourceName: "agm.pdf", ContentSHA256: "abc", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, string(constants.RunStatusRunning), run.Status)

	require.NoError(t, repo.FinishSuccess(ctx, run.ID, RunCounts{Method: "pdf-native", Pages: 3, Proposals: 2, Directors: 5}))

	got, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "agm.pdf", got.SourceName)
	assert.Equal(t, "abc", got.ContentSHA256)
	assert.Equal(t, string(constants.RunStatusExtracted), got.Status)
	assert.Equal(t, "pdf-native", got.Method)
	assert.Equal(t, 3, got.Pages)
	assert.Equal(t, 2, got.Proposals)
	assert.Equal(t, 5, got.Directors)
	assert.Empty(t, got.ErrorMessage)
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.FinishedAt.Before(got.StartedAt))
}

func TestRunLifecycle_Failure(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), nil)

	run, err := repo.Start(ctx, StartRun{SourceName: "broken.pdf", ContentSHA256: "def", Format: "pdf"})
	require.NoError(t, err)
	require.NoError(t, repo.FinishFailure(ctx, run.ID, "document has no pages"))

	got, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.RunStatusFailed), got.Status)
	assert.Equal(t, "document has no pages", got.ErrorMessage)
	require.NotNil(t, got.FinishedAt)
}

func TestRunRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t), nil)

	_, err := repo.Get(ctx, uuid.New())
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, common.CodeNotFound, common.CodeOf(err))

	err = repo.FinishSuccess(ctx, uuid.New(), RunCounts{})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewRunRepository(openTestDB(t), nil).(*runRepo)
	r.now = fixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	var ids []uuid.UUID
	for _, name := range []string{"a.pdf", "b.pdf", "c.txt"} {
		run, err := r.Start(ctx, StartRun{SourceName: name, Format: "pdf"})
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
	assert.Equal(t, ids[0], runs[2].ID)
	assert.Nil(t, runs[0].FinishedAt)

	runs, err = r.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
