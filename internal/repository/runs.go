package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/entity"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const DefaultListLimit = 50

// StartRun describes a document about to be processed.
type StartRun struct {
	SourceName    string
	ContentSHA256 string
	Format        string
}

// RunCounts is what a successful run produced.
type RunCounts struct {
	Method    string
	Pages     int
	Proposals int
	Directors int
}

type RunRepository interface {
	Start(ctx context.Context, in StartRun) (*entity.Run, error)
	FinishSuccess(ctx context.Context, runID uuid.UUID, counts RunCounts) error
	FinishFailure(ctx context.Context, runID uuid.UUID, message string) error
	Get(ctx context.Context, runID uuid.UUID) (*entity.Run, error)
	List(ctx context.Context, limit int) ([]*entity.Run, error)
}

type runRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log, now: time.Now}
}

func (r *runRepo) Start(ctx context.Context, in StartRun) (*entity.Run, error) {
	run := &entity.Run{
		ID:            uuid.New(),
		SourceName:    in.SourceName,
		ContentSHA256: in.ContentSHA256,
		Format:        in.Format,
		Status:        string(constants.RunStatusRunning),
		StartedAt:     r.now().UTC(),
	}
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`INSERT INTO extraction_run
		(id, source_name, content_sha256, format, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		run.ID.String(), run.SourceName, run.ContentSHA256, run.Format, run.Status, run.StartedAt.Format(timeLayout))
	if err != nil {
		r.log.Error("extraction_run start failed", "source", in.SourceName, "err", err)
		return nil, dbError("start run", err)
	}
	r.log.Info("extraction_run started", "run_id", run.ID, "source", in.SourceName, "format", in.Format)
	return run, nil
}

func (r *runRepo) FinishSuccess(ctx context.Context, runID uuid.UUID, counts RunCounts) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`UPDATE extraction_run
		SET status = ?, method = ?, pages = ?, proposals = ?, directors = ?, finished_at = ?
		WHERE id = ?`),
		string(constants.RunStatusExtracted), counts.Method, counts.Pages, counts.Proposals, counts.Directors,
		r.now().UTC().Format(timeLayout), runID.String())
	if err = checkUpdated(res, err); err != nil {
		r.log.Error("extraction_run finish(EXTRACTED) failed", "run_id", runID, "err", err)
		return err
	}
	r.log.Info("extraction_run finished (EXTRACTED)", "run_id", runID,
		"proposals", counts.Proposals, "directors", counts.Directors)
	return nil
}

func (r *runRepo) FinishFailure(ctx context.Context, runID uuid.UUID, message string) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`UPDATE extraction_run
		SET status = ?, error_message = ?, finished_at = ?
		WHERE id = ?`),
		string(constants.RunStatusFailed), message, r.now().UTC().Format(timeLayout), runID.String())
	if err = checkUpdated(res, err); err != nil {
		r.log.Error("extraction_run finish(FAILED) failed", "run_id", runID, "err", err)
		return err
	}
	r.log.Warn("extraction_run finished (FAILED)", "run_id", runID, "error", message)
	return nil
}

const selectRun = `SELECT id, source_name, content_sha256, format, method, status,
	pages, proposals, directors, error_message, started_at, finished_at
	FROM extraction_run`

func (r *runRepo) Get(ctx context.Context, runID uuid.UUID) (*entity.Run, error) {
	row := r.db.SQL.QueryRowContext(ctx, r.db.rebind(selectRun+` WHERE id = ?`), runID.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError(common.CodeNotFound, fmt.Sprintf("run %s not found", runID), common.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get run", err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *runRepo) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(selectRun+` ORDER BY started_at DESC, id LIMIT ?`), limit)
	if err != nil {
		return nil, dbError("list runs", err)
	}
	defer rows.Close()

	runs := make([]*entity.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError("scan run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list runs", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*entity.Run, error) {
	var (
		run        entity.Run
		id         string
		startedAt  string
		finishedAt sql.NullString
	)
	err := s.Scan(&id, &run.SourceName, &run.ContentSHA256, &run.Format, &run.Method, &run.Status,
		&run.Pages, &run.Proposals, &run.Directors, &run.ErrorMessage, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

func checkUpdated(res sql.Result, err error) error {
	if err != nil {
		return dbError("update run", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("update run", err)
	}
	if n == 0 {
		return common.NewAppError(common.CodeNotFound, "run not found", common.ErrNotFound)
	}
	return nil
}

func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrDatabase, err)
}
