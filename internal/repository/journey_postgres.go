package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homereno/journey-backend/internal/entity"
)

// JourneyRepository defines the interface for journey persistence
type JourneyRepository interface {
	CreateJourney(ctx context.Context, userID int64) (*entity.Journey, error)
	GetJourneyByID(ctx context.Context, id int64) (*entity.Journey, error)
	GetActiveJourneyByUserID(ctx context.Context, userID int64) (*entity.Journey, error)
	ListJourneys(ctx context.Context, limit, offset int) ([]entity.Journey, error)
	UpdateJourney(ctx context.Context, id int64, update entity.JourneyUpdate) (*entity.Journey, error)
	SetCheckpointIfEmpty(ctx context.Context, id int64, cp entity.Checkpoint, value string) (bool, error)
}

var _ JourneyRepository = &JourneyPostgres{}

// JourneyPostgres implements JourneyRepository using PostgreSQL
type JourneyPostgres struct {
	db *pgxpool.Pool
}

func NewJourneyPostgres(db *pgxpool.Pool) *JourneyPostgres {
	return &JourneyPostgres{db: db}
}

const journeyColumns = `id, user_id, current_milestone, status,
	room, renovation_purpose, budget_range, timeline, style_preference, priority_feature,
	milestone1_completed, milestone2_completed, milestone3_completed,
	milestone1_completed_at, milestone2_completed_at, milestone3_completed_at,
	created_at, updated_at`

func (r *JourneyPostgres) CreateJourney(ctx context.Context, userID int64) (*entity.Journey, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO journeys (user_id)
		VALUES ($1)
		RETURNING `+journeyColumns,
		userID,
	)

	journey, err := scanJourney(row)
	if err != nil {
		return nil, fmt.Errorf("create journey: %w", err)
	}
	return journey, nil
}

func (r *JourneyPostgres) GetJourneyByID(ctx context.Context, id int64) (*entity.Journey, error) {
	row := r.db.QueryRow(ctx, `SELECT `+journeyColumns+` FROM journeys WHERE id = $1`, id)

	journey, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("get journey: %w", err)
	}
	return journey, nil
}

// GetActiveJourneyByUserID returns the user's most recent in-progress journey.
func (r *JourneyPostgres) GetActiveJourneyByUserID(ctx context.Context, userID int64) (*entity.Journey, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+journeyColumns+`
		FROM journeys
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, entity.JourneyStatusInProgress,
	)

	journey, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("get active journey: %w", err)
	}
	return journey, nil
}

func (r *JourneyPostgres) ListJourneys(ctx context.Context, limit, offset int) ([]entity.Journey, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+journeyColumns+` FROM journeys ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	defer rows.Close()

	journeys := make([]entity.Journey, 0)
	for rows.Next() {
		journey, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		journeys = append(journeys, *journey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	return journeys, nil
}

// UpdateJourney applies a partial update. Nil fields keep their stored value.
func (r *JourneyPostgres) UpdateJourney(ctx context.Context, id int64, update entity.JourneyUpdate) (*entity.Journey, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE journeys
		SET current_milestone        = COALESCE($2, current_milestone),
		    status                   = COALESCE($3, status),
		    room                     = COALESCE($4, room),
		    renovation_purpose       = COALESCE($5, renovation_purpose),
		    budget_range             = COALESCE($6, budget_range),
		    timeline                 = COALESCE($7, timeline),
		    style_preference         = COALESCE($8, style_preference),
		    priority_feature         = COALESCE($9, priority_feature),
		    milestone1_completed     = COALESCE($10, milestone1_completed),
		    milestone2_completed     = COALESCE($11, milestone2_completed),
		    milestone3_completed     = COALESCE($12, milestone3_completed),
		    milestone1_completed_at  = COALESCE($13, milestone1_completed_at),
		    milestone2_completed_at  = COALESCE($14, milestone2_completed_at),
		    milestone3_completed_at  = COALESCE($15, milestone3_completed_at),
		    updated_at               = now()
		WHERE id = $1
		RETURNING `+journeyColumns,
		id,
		update.CurrentMilestone,
		update.Status,
		update.Room,
		update.RenovationPurpose,
		update.BudgetRange,
		update.Timeline,
		update.StylePreference,
		update.PriorityFeature,
		update.Milestone1Completed,
		update.Milestone2Completed,
		update.Milestone3Completed,
		update.Milestone1CompletedAt,
		update.Milestone2CompletedAt,
		update.Milestone3CompletedAt,
	)

	journey, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("update journey: %w", err)
	}
	return journey, nil
}

// SetCheckpointIfEmpty writes a checkpoint value only when it is still null,
// so concurrent extraction turns cannot overwrite each other. Returns whether
// the write happened.
func (r *JourneyPostgres) SetCheckpointIfEmpty(ctx context.Context, id int64, cp entity.Checkpoint, value string) (bool, error) {
	column, ok := checkpointColumns[cp]
	if !ok {
		return false, entity.ErrInvalidCheckpoint
	}

	// Column name comes from a fixed table, never from input.
	tag, err := r.db.Exec(ctx,
		`UPDATE journeys SET `+column+` = $2, updated_at = now() WHERE id = $1 AND `+column+` IS NULL`,
		id, value,
	)
	if err != nil {
		return false, fmt.Errorf("set checkpoint %s: %w", cp, err)
	}
	return tag.RowsAffected() > 0, nil
}

var checkpointColumns = map[entity.Checkpoint]string{
	entity.CheckpointRoom:              "room",
	entity.CheckpointRenovationPurpose: "renovation_purpose",
	entity.CheckpointBudgetRange:       "budget_range",
	entity.CheckpointTimeline:          "timeline",
	entity.CheckpointStylePreference:   "style_preference",
	entity.CheckpointPriorityFeature:   "priority_feature",
}
