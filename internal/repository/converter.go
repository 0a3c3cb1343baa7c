package repository

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/homereno/journey-backend/internal/entity"
)

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanJourney(row pgx.Row) (*entity.Journey, error) {
	var j entity.Journey
	err := row.Scan(
		&j.ID, &j.UserID, &j.CurrentMilestone, &j.Status,
		&j.Room, &j.RenovationPurpose, &j.BudgetRange, &j.Timeline,
		&j.StylePreference, &j.PriorityFeature,
		&j.Milestone1Completed, &j.Milestone2Completed, &j.Milestone3Completed,
		&j.Milestone1CompletedAt, &j.Milestone2CompletedAt, &j.Milestone3CompletedAt,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func scanMessage(row pgx.Row) (*entity.Message, error) {
	var m entity.Message
	err := row.Scan(
		&m.ID, &m.UserID, &m.JourneyID, &m.Speaker,
		&m.Content, &m.CurrentMilestone, &m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMessages(rows pgx.Rows) ([]entity.Message, error) {
	messages := make([]entity.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	return messages, nil
}
