package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"sesheta/internal/chatbot"
)

// columnsPerRow mirrors the cells-written count of the spreadsheet append
// this ledger replaced.
const columnsPerRow = 6

// Repository appends interaction records to the Postgres ledger. It
// implements chatbot.LedgerSink.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, rec chatbot.InteractionRecord) (int, error) {
	query := `
		INSERT INTO interactions (recorded_at, sender, message, space_display_name, event_type, space_name)
		VALUES ($1, $2, $3, $4, $5, $6)`

	var message sql.NullString
	if rec.Text != nil {
		message = sql.NullString{String: *rec.Text, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		rec.Timestamp,
		rec.Sender,
		message,
		rec.SpaceDisplayName,
		rec.EventType,
		rec.SpaceName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append interaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return int(rows) * columnsPerRow, nil
}

// Count reports the number of recorded interactions, used by tests and the
// health surface.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
