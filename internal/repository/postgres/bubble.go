// Package postgres implements the durable bubble repository.
//
// Layout: one row per bubble identifier in bubbles (indicator set and
// snapshot as JSON columns) and an append-only bubble_turns table keyed by
// (bubble_id, conversation_id, seq). Re-initialization touches only the
// bubbles row, so conversation logs survive a full state replacement.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/service/bubble"
)

// BubbleRepo implements bubble.Repository against PostgreSQL.
type BubbleRepo struct{ db *sql.DB }

// NewBubbleRepo creates a Postgres-backed bubble repository.
func NewBubbleRepo(db *sql.DB) *BubbleRepo { return &BubbleRepo{db: db} }

var _ bubble.Repository = (*BubbleRepo)(nil)

// Schema is the DDL this repository expects. Applied by cmd/server on boot
// when the postgres store is configured.
const Schema = `
CREATE TABLE IF NOT EXISTS bubbles (
	bubble_id  TEXT PRIMARY KEY,
	indicators JSONB NOT NULL,
	snapshot   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS bubble_turns (
	bubble_id       TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	seq             BIGSERIAL,
	user_text       TEXT NOT NULL,
	agent_text      TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (bubble_id, conversation_id, seq)
);
`

func (r *BubbleRepo) GetSnapshot(ctx context.Context, bubbleID string) (domain.BubbleSnapshot, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM bubbles WHERE bubble_id = $1`, bubbleID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.BubbleSnapshot{}, bubble.ErrNotFound
	}
	if err != nil {
		return domain.BubbleSnapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	var snap domain.BubbleSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.BubbleSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (r *BubbleRepo) ReplaceState(ctx context.Context, bubbleID string, indicators domain.IndicatorSet, snap domain.BubbleSnapshot) error {
	indJSON, err := json.Marshal(indicators)
	if err != nil {
		return fmt.Errorf("encode indicators: %w", err)
	}
	snapJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Row replacement only; bubble_turns is never touched here, so a
	// re-initialization cannot lose conversation logs.
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bubbles (bubble_id, indicators, snapshot, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bubble_id) DO UPDATE
		SET indicators = EXCLUDED.indicators,
		    snapshot = EXCLUDED.snapshot,
		    updated_at = EXCLUDED.updated_at
	`, bubbleID, indJSON, snapJSON, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (r *BubbleRepo) AppendTurn(ctx context.Context, key domain.ConversationKey, turn domain.Turn) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bubbles WHERE bubble_id = $1)`, key.BubbleID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check bubble: %w", err)
	}
	if !exists {
		return bubble.ErrNotFound
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bubble_turns (bubble_id, conversation_id, user_text, agent_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, key.BubbleID, key.ConversationID, turn.UserText, turn.AgentText, turn.Timestamp)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (r *BubbleRepo) History(ctx context.Context, key domain.ConversationKey) ([]domain.Turn, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bubbles WHERE bubble_id = $1)`, key.BubbleID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check bubble: %w", err)
	}
	if !exists {
		return nil, bubble.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_text, agent_text, created_at
		FROM bubble_turns
		WHERE bubble_id = $1 AND conversation_id = $2
		ORDER BY seq ASC
	`, key.BubbleID, key.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	turns := []domain.Turn{}
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.UserText, &t.AgentText, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (r *BubbleRepo) ClearConversation(ctx context.Context, key domain.ConversationKey) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bubbles WHERE bubble_id = $1)`, key.BubbleID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check bubble: %w", err)
	}
	if !exists {
		return bubble.ErrNotFound
	}

	_, err = r.db.ExecContext(ctx, `
		DELETE FROM bubble_turns WHERE bubble_id = $1 AND conversation_id = $2
	`, key.BubbleID, key.ConversationID)
	if err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

func (r *BubbleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bubbles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bubbles: %w", err)
	}
	return n, nil
}
