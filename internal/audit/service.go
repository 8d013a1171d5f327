package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDisabled is returned by queries when no database is configured.
var ErrDisabled = errors.New("audit: database not configured")

// Service records synthesis outcomes for usage reporting. With a nil pool
// every call is a no-op, so the API runs unchanged without a database.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Entry is one synthesis request outcome.
type Entry struct {
	RequestID  string
	Engine     string
	Voice      string
	Language   string
	Format     string
	Characters int
	CacheHit   bool
	DurationMs int64
	Status     string
}

// Record inserts one synthesis log row. Failures are logged and absorbed:
// auditing must never fail or slow a synthesis request.
func (s *Service) Record(ctx context.Context, e Entry) {
	if s.db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`INSERT INTO synthesis_logs (request_id, engine, voice, language, format, characters, cache_hit, duration_ms, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.RequestID, e.Engine, e.Voice, e.Language, e.Format, e.Characters, e.CacheHit, e.DurationMs, e.Status,
	)
	if err != nil {
		slog.Warn("insert synthesis log failed", "error", err)
	}
}

// SynthesisLog is a stored synthesis outcome.
type SynthesisLog struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"request_id"`
	Engine     string    `json:"engine"`
	Voice      string    `json:"voice"`
	Language   string    `json:"language"`
	Format     string    `json:"format"`
	Characters int       `json:"characters"`
	CacheHit   bool      `json:"cache_hit"`
	DurationMs int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// UsageSummary aggregates synthesis activity per engine.
type UsageSummary struct {
	Engine          string  `json:"engine"`
	TotalRequests   int     `json:"total_requests"`
	TotalCharacters int     `json:"total_characters"`
	CacheHits       int     `json:"cache_hits"`
	Failures        int     `json:"failures"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
}

func (s *Service) GetUsageSummary(ctx context.Context, startDate, endDate *time.Time) ([]UsageSummary, error) {
	if s.db == nil {
		return nil, ErrDisabled
	}

	query := `SELECT engine, COUNT(*) AS total_requests,
	                 COALESCE(SUM(characters), 0) AS total_characters,
	                 COUNT(*) FILTER (WHERE cache_hit) AS cache_hits,
	                 COUNT(*) FILTER (WHERE status <> 'ok') AS failures,
	                 COALESCE(AVG(duration_ms), 0) AS avg_duration_ms
	          FROM synthesis_logs`

	var conds []string
	var args []interface{}
	argIdx := 1

	if startDate != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *endDate)
		argIdx++
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY engine ORDER BY total_requests DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []UsageSummary
	for rows.Next() {
		var us UsageSummary
		if err := rows.Scan(&us.Engine, &us.TotalRequests, &us.TotalCharacters, &us.CacheHits, &us.Failures, &us.AvgDurationMs); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		summaries = append(summaries, us)
	}
	return summaries, nil
}

// Recent returns the latest synthesis logs, newest first.
func (s *Service) Recent(ctx context.Context, limit, offset int) ([]SynthesisLog, error) {
	if s.db == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, request_id, engine, voice, language, format, characters, cache_hit, duration_ms, status, created_at
		 FROM synthesis_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query synthesis logs: %w", err)
	}
	defer rows.Close()

	var logs []SynthesisLog
	for rows.Next() {
		var l SynthesisLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Engine, &l.Voice, &l.Language, &l.Format, &l.Characters, &l.CacheHit, &l.DurationMs, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan synthesis log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
