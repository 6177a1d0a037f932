package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phoenix/domain/core"
	"phoenix/domain/project"
	"phoenix/ports"
)

type conversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a conversation repository
func NewConversationRepository(db *sqlx.DB) ports.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, c *project.Conversation) error {
	answerJSON, err := json.Marshal(c.Answer)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}

	query := `INSERT INTO conversations (id, project_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query, c.ID, c.ProjectID, c.Question, answerJSON, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) ListByProject(ctx context.Context, projectID core.ProjectID) ([]*project.Conversation, error) {
	query := `SELECT id, project_id, question, answer, created_at
		FROM conversations WHERE project_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*project.Conversation
	for rows.Next() {
		var c project.Conversation
		var answerJSON []byte
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Question, &answerJSON, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if len(answerJSON) > 0 {
			if err := json.Unmarshal(answerJSON, &c.Answer); err != nil {
				return nil, fmt.Errorf("failed to unmarshal answer: %w", err)
			}
		}
		conversations = append(conversations, &c)
	}
	return conversations, rows.Err()
}
