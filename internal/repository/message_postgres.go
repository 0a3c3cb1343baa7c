package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homereno/journey-backend/internal/entity"
)

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg entity.MessageCreate) (*entity.Message, error)
	GetJourneyMessages(ctx context.Context, journeyID int64, limit int) ([]entity.Message, error)
	ListMessages(ctx context.Context, limit, offset int) ([]entity.Message, error)
}

var _ MessageRepository = &MessagePostgres{}

// MessagePostgres implements MessageRepository using PostgreSQL
type MessagePostgres struct {
	db *pgxpool.Pool
}

func NewMessagePostgres(db *pgxpool.Pool) *MessagePostgres {
	return &MessagePostgres{db: db}
}

const messageColumns = "id, user_id, journey_id, speaker, content, current_milestone, timestamp"

func (r *MessagePostgres) CreateMessage(ctx context.Context, msg entity.MessageCreate) (*entity.Message, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO messages (user_id, journey_id, speaker, content, current_milestone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		msg.UserID, msg.JourneyID, msg.Speaker, msg.Content, msg.CurrentMilestone,
	)

	message, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

// GetJourneyMessages returns the newest messages of a journey, most recent
// first. Callers reverse the slice when they need chronological order.
func (r *MessagePostgres) GetJourneyMessages(ctx context.Context, journeyID int64, limit int) ([]entity.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE journey_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`,
		journeyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get journey messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *MessagePostgres) ListMessages(ctx context.Context, limit, offset int) ([]entity.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		ORDER BY timestamp DESC, id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}
