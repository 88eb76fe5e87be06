package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// InsertAlert persists one immutable alert. The detector-specific payload
// lands in a jsonb column.
func (p *Postgres) InsertAlert(ctx context.Context, a models.EdgeAlert) error {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	query := `
		INSERT INTO edge_alerts (id, type, event_id, sport, severity, confidence,
		                         expected_value, title, description, data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = p.db.ExecContext(ctx, query,
		a.ID, string(a.Type), a.EventID, a.Sport, string(a.Severity), a.Confidence,
		a.ExpectedValue, a.Title, a.Description, data, a.CreatedAt, a.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert %s: %w", a.ID, err)
	}
	return nil
}

// ActiveAlerts pages unexpired alerts, newest first. Expired rows are
// filtered out, never deleted - retention is a separate concern.
func (p *Postgres) ActiveAlerts(ctx context.Context, sport string, asOf time.Time, limit, offset int) ([]models.EdgeAlert, error) {
	query := `
		SELECT id, type, event_id, sport, severity, confidence,
		       expected_value, title, description, data, created_at, expires_at
		FROM edge_alerts
		WHERE (expires_at IS NULL OR expires_at > $1)
		  AND ($2 = '' OR sport = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := p.db.QueryContext(ctx, query, asOf, sport, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.EdgeAlert
	for rows.Next() {
		var a models.EdgeAlert
		var data []byte
		err := rows.Scan(
			&a.ID,
			&a.Type,
			&a.EventID,
			&a.Sport,
			&a.Severity,
			&a.Confidence,
			&a.ExpectedValue,
			&a.Title,
			&a.Description,
			&data,
			&a.CreatedAt,
			&a.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &a.Data); err != nil {
				return nil, fmt.Errorf("decode alert payload %s: %w", a.ID, err)
			}
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
