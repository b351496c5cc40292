package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/model"
)

type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// InsertMessage writes an event into the outbox, usually inside the same
// transaction as the state change it announces.
func (r *OutboxRepository) InsertMessage(ctx context.Context, ext RepoExtension, topic string, event any) error {
	if ext == nil {
		ext = r.db
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	const query = `
		INSERT INTO messages.outbox_messages (id, topic, payload)
		VALUES ($1, $2, $3);
	`

	_, err = ext.Exec(ctx, query, uuid.New(), topic, payload)
	return err
}

func (r *OutboxRepository) SelectUnsentBatch(ctx context.Context, ext RepoExtension, batchSize int) ([]model.OutboxMessage, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, topic, payload, created_at, sent, sent_at
		FROM messages.outbox_messages
		WHERE NOT sent
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := ext.Query(ctx, query, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]model.OutboxMessage, 0, batchSize)

	for rows.Next() {
		var m model.OutboxMessage

		if err := rows.Scan(
			&m.ID,
			&m.Topic,
			&m.Payload,
			&m.CreatedAt,
			&m.Sent,
			&m.SentAt,
		); err != nil {
			return nil, err
		}

		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (r *OutboxRepository) UpdateAsSent(ctx context.Context, ext RepoExtension, messageID uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE messages.outbox_messages
		SET sent = TRUE, sent_at = NOW()
		WHERE id = $1;
	`

	_, err := ext.Exec(ctx, query, messageID)
	return err
}
