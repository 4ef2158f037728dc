package database

import (
	"context"
	"fmt"
)

// ListRamalNames retrieves the active ramal → display-name mapping
// used to resolve operator names on scraped call records.
func (db *DB) ListRamalNames(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT r.ramal, r.display_name
		FROM erp.ramais r
		WHERE r.active = true
		ORDER BY r.ramal
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ramais: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var ramal, name string
		if err := rows.Scan(&ramal, &name); err != nil {
			return nil, fmt.Errorf("scan ramal: %w", err)
		}
		names[ramal] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ramais: %w", err)
	}

	return names, nil
}
