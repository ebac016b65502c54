package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanPropSheet = "failed to scan prop sheet: %w"

const selectPropSheetColumns = `SELECT event_id, player_name, markets, captured_at FROM prop_sheets`

// PostgresPropSheetRepository implements PropSheetRepository for PostgreSQL
type PostgresPropSheetRepository struct {
	db *database.DB
}

// NewPostgresPropSheetRepository creates a new prop sheet repository
func NewPostgresPropSheetRepository(db *database.DB) PropSheetRepository {
	return &PostgresPropSheetRepository{db: db}
}

// InsertBatch stores one capture run's sheets in a single transaction.
// Sheets are append-only; each capture is a new snapshot.
func (r *PostgresPropSheetRepository) InsertBatch(ctx context.Context, sheets []*models.PropSheet) error {
	if len(sheets) == 0 {
		return nil
	}

	query := `
		INSERT INTO prop_sheets (event_id, player_name, markets, captured_at)
		VALUES ($1, $2, $3, $4)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, sheet := range sheets {
			payload, err := json.Marshal(sheet.Markets)
			if err != nil {
				return fmt.Errorf("failed to marshal prop markets: %w", err)
			}

			if _, err := tx.Exec(ctx, query, sheet.EventID, sheet.PlayerName, payload, sheet.CapturedAt); err != nil {
				return fmt.Errorf("failed to insert prop sheet for %s: %w", sheet.PlayerName, err)
			}
		}
		return nil
	})
}

// ListByDate retrieves the sheets captured on one calendar day (UTC)
func (r *PostgresPropSheetRepository) ListByDate(ctx context.Context, day time.Time) ([]*models.PropSheet, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query := selectPropSheetColumns + `
		WHERE captured_at >= $1 AND captured_at < $2
		ORDER BY player_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query prop sheets by date: %w", err)
	}
	defer rows.Close()

	return collectPropSheets(rows)
}

// ListMostRecent retrieves the latest captured day's sheets, falling back
// across days so a missed capture still yields projectable lines.
func (r *PostgresPropSheetRepository) ListMostRecent(ctx context.Context) ([]*models.PropSheet, error) {
	query := selectPropSheetColumns + `
		WHERE captured_at >= (
			SELECT date_trunc('day', MAX(captured_at)) FROM prop_sheets
		)
		ORDER BY player_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query most recent prop sheets: %w", err)
	}
	defer rows.Close()

	return collectPropSheets(rows)
}

func collectPropSheets(rows pgx.Rows) ([]*models.PropSheet, error) {
	var sheets []*models.PropSheet
	for rows.Next() {
		sheet := &models.PropSheet{}
		var payload []byte

		if err := rows.Scan(&sheet.EventID, &sheet.PlayerName, &payload, &sheet.CapturedAt); err != nil {
			return nil, fmt.Errorf(errScanPropSheet, err)
		}
		if err := json.Unmarshal(payload, &sheet.Markets); err != nil {
			return nil, fmt.Errorf(errScanPropSheet, err)
		}
		sheets = append(sheets, sheet)
	}

	return sheets, rows.Err()
}
