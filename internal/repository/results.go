package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
	"github.com/IbrahimShadi/pdf-analyzer/internal/analyzer"
	"github.com/IbrahimShadi/pdf-analyzer/internal/classifier"
	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
	"github.com/IbrahimShadi/pdf-analyzer/internal/extract"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	errorSeparator   = " | "

	// fixed width so analyzed_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	Limit    int
	TopClass string // class name or synonym, see constants.Canonicalize
	RunID    string
}

type ResultRepository interface {
	Save(ctx context.Context, r analyzer.Result, contentHash string) error
	GetByID(ctx context.Context, id uuid.UUID) (analyzer.Result, error)
	List(ctx context.Context, f ListFilter) ([]analyzer.Result, error)
	// FindByHash returns the most recent result for a file content hash.
	FindByHash(ctx context.Context, contentHash string) (analyzer.Result, error)
	// CountByClass tallies stored results per top class.
	CountByClass(ctx context.Context) (map[string]int, error)
}

type resultRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewResultRepository(db *DB, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepo{db: db, logger: logger}
}

const resultColumns = `id, run_id, path_in, path_out, top_class, confidence, probabilities,
	extracted, errors, status, method, duration_ms, analyzed_at`

func (r *resultRepo) Save(ctx context.Context, res analyzer.Result, contentHash string) error {
	probs, err := json.Marshal(res.Probabilities)
	if err != nil {
		return fmt.Errorf("marshal probabilities: %w", err)
	}
	var extracted, errs sql.NullString
	if res.Extracted != nil {
		b, err := json.Marshal(res.Extracted)
		if err != nil {
			return fmt.Errorf("marshal fields: %w", err)
		}
		extracted = sql.NullString{String: string(b), Valid: true}
	}
	if len(res.Errors) > 0 {
		errs = sql.NullString{String: strings.Join(res.Errors, errorSeparator), Valid: true}
	}
	var pathOut sql.NullString
	if res.PathOut != nil {
		pathOut = sql.NullString{String: *res.PathOut, Valid: true}
	}
	analyzedAt := res.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	q := r.db.rebind(`INSERT INTO analysis_results (` + resultColumns + `, content_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.sql.ExecContext(ctx, q,
		res.ID.String(), res.RunID, res.PathIn, pathOut, res.TopClass, res.Confidence, string(probs),
		extracted, errs, string(res.Status), res.Method, res.Duration.Milliseconds(),
		analyzedAt.UTC().Format(timeLayout), contentHash,
	)
	if err != nil {
		r.logger.Error("failed to save result", "id", res.ID, "path", res.PathIn, "error", err)
		return fmt.Errorf("%w: save result: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *resultRepo) GetByID(ctx context.Context, id uuid.UUID) (analyzer.Result, error) {
	q := r.db.rebind(`SELECT ` + resultColumns + ` FROM analysis_results WHERE id = ?`)
	res, err := scanResult(r.db.sql.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return analyzer.Result{}, fmt.Errorf("%w: result %s", common.ErrNotFound, id)
	}
	return res, err
}

func (r *resultRepo) FindByHash(ctx context.Context, contentHash string) (analyzer.Result, error) {
	q := r.db.rebind(`SELECT ` + resultColumns + ` FROM analysis_results
	WHERE content_hash = ? ORDER BY analyzed_at DESC LIMIT 1`)
	res, err := scanResult(r.db.sql.QueryRowContext(ctx, q, contentHash))
	if errors.Is(err, sql.ErrNoRows) {
		return analyzer.Result{}, fmt.Errorf("%w: content hash %s", common.ErrNotFound, contentHash)
	}
	return res, err
}

func (r *resultRepo) List(ctx context.Context, f ListFilter) ([]analyzer.Result, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	var (
		where []string
		args  []any
	)
	if f.TopClass != "" {
		class := f.TopClass
		if dt, ok := constants.Canonicalize(class); ok {
			class = string(dt)
		}
		where = append(where, "top_class = ?")
		args = append(args, class)
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}
	q := `SELECT ` + resultColumns + ` FROM analysis_results`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY analyzed_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.sql.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list results: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []analyzer.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (analyzer.Result, error) {
	var (
		id, runID, pathIn, topClass, probs, status, method, analyzedAt string
		pathOut, extracted, errs                                       sql.NullString
		confidence                                                     float64
		durationMS                                                     int64
	)
	err := s.Scan(&id, &runID, &pathIn, &pathOut, &topClass, &confidence, &probs,
		&extracted, &errs, &status, &method, &durationMS, &analyzedAt)
	if err != nil {
		return analyzer.Result{}, err
	}

	res := analyzer.Result{
		RunID:      runID,
		PathIn:     pathIn,
		TopClass:   topClass,
		Confidence: confidence,
		Status:     constants.AnalysisStatus(status),
		Method:     method,
		Duration:   time.Duration(durationMS) * time.Millisecond,
	}
	if res.ID, err = uuid.Parse(id); err != nil {
		return analyzer.Result{}, fmt.Errorf("%w: bad id %q", common.ErrDatabase, id)
	}
	if pathOut.Valid {
		res.PathOut = &pathOut.String
	}
	if err := json.Unmarshal([]byte(probs), &res.Probabilities); err != nil {
		return analyzer.Result{}, fmt.Errorf("%w: probabilities: %v", common.ErrDatabase, err)
	}
	if res.Probabilities == nil {
		res.Probabilities = classifier.Probabilities{}
	}
	if extracted.Valid {
		if res.Extracted, err = extract.Decode(constants.DocType(topClass), []byte(extracted.String)); err != nil {
			return analyzer.Result{}, err
		}
	}
	if errs.Valid && errs.String != "" {
		res.Errors = strings.Split(errs.String, errorSeparator)
	}
	if t, err := time.Parse(timeLayout, analyzedAt); err == nil {
		res.AnalyzedAt = t
	}
	return res, nil
}

func (r *resultRepo) CountByClass(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.sql.QueryContext(ctx, `SELECT top_class, COUNT(*) FROM analysis_results GROUP BY top_class`)
	if err != nil {
		return nil, fmt.Errorf("%w: count results: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			class string
			n     int
		)
		if err := rows.Scan(&class, &n); err != nil {
			return nil, fmt.Errorf("%w: scan count: %v", common.ErrDatabase, err)
		}
		out[class] = n
	}
	return out, rows.Err()
}
