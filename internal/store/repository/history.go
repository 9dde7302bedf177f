package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/propscout/internal/store"
)

// HistoryRepository handles analysis history access. Rows are append-only;
// reruns of the same query insert new rows rather than updating old ones.
type HistoryRepository struct {
	db *store.Database
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *store.Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// SavePlayerAnalysis appends one player analysis row.
func (r *HistoryRepository) SavePlayerAnalysis(ctx context.Context, rec *store.PlayerAnalysis) error {
	query := `
		INSERT INTO player_analyses
			(requested_by, player_name, combination, threshold, season, result, risk_label, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		rec.RequestedBy, rec.PlayerName, rec.Combination, rec.Threshold,
		rec.Season, rec.Result, rec.RiskLabel, rec.Confidence,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting player analysis: %w", err)
	}
	return nil
}

// SaveMatchupAnalysis appends one matchup analysis row.
func (r *HistoryRepository) SaveMatchupAnalysis(ctx context.Context, rec *store.MatchupAnalysis) error {
	query := `
		INSERT INTO matchup_analyses
			(requested_by, home_team, away_team, model, threshold, season, result, decision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		rec.RequestedBy, rec.HomeTeam, rec.AwayTeam, rec.Model,
		rec.Threshold, rec.Season, rec.Result, rec.Decision,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting matchup analysis: %w", err)
	}
	return nil
}

// RecentPlayerAnalyses lists the newest player analyses, optionally filtered
// by a case-insensitive player name fragment.
func (r *HistoryRepository) RecentPlayerAnalyses(ctx context.Context, playerName string, limit int) ([]*store.PlayerAnalysis, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, requested_by, player_name, combination, threshold, season,
			result, risk_label, confidence, created_at
		FROM player_analyses
		WHERE ($1 = '' OR player_name ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerName, "%"+playerName+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying player analyses: %w", err)
	}
	defer rows.Close()

	var out []*store.PlayerAnalysis
	for rows.Next() {
		rec := &store.PlayerAnalysis{}
		err := rows.Scan(
			&rec.ID, &rec.RequestedBy, &rec.PlayerName, &rec.Combination, &rec.Threshold,
			&rec.Season, &rec.Result, &rec.RiskLabel, &rec.Confidence, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player analysis: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentMatchupAnalyses lists the newest matchup analyses.
func (r *HistoryRepository) RecentMatchupAnalyses(ctx context.Context, limit int) ([]*store.MatchupAnalysis, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, requested_by, home_team, away_team, model, threshold, season,
			result, decision, created_at
		FROM matchup_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying matchup analyses: %w", err)
	}
	defer rows.Close()

	var out []*store.MatchupAnalysis
	for rows.Next() {
		rec := &store.MatchupAnalysis{}
		var threshold sql.NullFloat64
		err := rows.Scan(
			&rec.ID, &rec.RequestedBy, &rec.HomeTeam, &rec.AwayTeam, &rec.Model,
			&threshold, &rec.Season, &rec.Result, &rec.Decision, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning matchup analysis: %w", err)
		}
		if threshold.Valid {
			v := threshold.Float64
			rec.Threshold = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
