package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

const faqColumns = `id, question, answer, category, position, created_at, updated_at`

// FAQRepository stores chatbot questions and answers.
type FAQRepository struct {
	db *sqlx.DB
}

// NewFAQRepository constructs the repository.
func NewFAQRepository(db *sqlx.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// List returns every entry in stable storage order.
func (r *FAQRepository) List(ctx context.Context) ([]models.FAQEntry, error) {
	query := `SELECT ` + faqColumns + ` FROM chatbot_entries ORDER BY position ASC, created_at ASC, id ASC`
	var entries []models.FAQEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list chatbot entries: %w", err)
	}
	return entries, nil
}

// FindByID returns one entry.
func (r *FAQRepository) FindByID(ctx context.Context, id string) (*models.FAQEntry, error) {
	query := `SELECT ` + faqColumns + ` FROM chatbot_entries WHERE id = $1`
	var entry models.FAQEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find chatbot entry: %w", err)
	}
	return &entry, nil
}

// Create appends an entry after the current last position.
func (r *FAQRepository) Create(ctx context.Context, entry *models.FAQEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	const query = `INSERT INTO chatbot_entries (id, question, answer, category, position, created_at, updated_at)
        VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), 0) + 1 FROM chatbot_entries), $5, $6)
        RETURNING position`
	if err := r.db.GetContext(ctx, &entry.Position, query, entry.ID, entry.Question, entry.Answer, entry.Category, entry.CreatedAt, entry.UpdatedAt); err != nil {
		return fmt.Errorf("create chatbot entry: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chatbot_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete chatbot entry: %w", err)
	}
	return nil
}

// ReplaceAll deletes every entry and inserts entries in order.
func (r *FAQRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, entries []models.FAQEntry) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM chatbot_entries`); err != nil {
		return fmt.Errorf("clear chatbot entries: %w", err)
	}
	const query = `INSERT INTO chatbot_entries (id, question, answer, category, position, created_at, updated_at)
        VALUES (:id, :question, :answer, :category, :position, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.CreatedAt = now
		entry.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, exec, query, entry); err != nil {
			return fmt.Errorf("insert chatbot entry %d: %w", entry.Position, err)
		}
	}
	return nil
}
