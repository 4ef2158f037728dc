// Package directory resolves ramais (telephone extensions) to the
// operator display names used across reports.
package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jovemegidio/Zyntra-sub004/internal/database"
	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

// Directory is an in-memory ramal → display-name map. It doubles as
// the fallback origin listing when the live portal is unreachable.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStatic builds a directory from a fixed mapping, typically the
// one in the configuration file.
func NewStatic(entries map[string]string) *Directory {
	copied := make(map[string]string, len(entries))
	for ramal, name := range entries {
		copied[ramal] = name
	}
	return &Directory{entries: copied}
}

// NewFromDatabase loads the directory from the ramais table.
func NewFromDatabase(ctx context.Context, db *database.DB) (*Directory, error) {
	entries, err := db.ListRamalNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	return &Directory{entries: entries}, nil
}

// Resolve returns the display name for a ramal, or the raw ramal
// itself when it is unknown.
func (d *Directory) Resolve(ramal string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if name, ok := d.entries[ramal]; ok && name != "" {
		return name
	}
	return ramal
}

// All returns every known origin, sorted by ramal.
func (d *Directory) All() []models.Origin {
	d.mu.RLock()
	defer d.mu.RUnlock()

	origins := make([]models.Origin, 0, len(d.entries))
	for ramal, name := range d.entries {
		origins = append(origins, models.Origin{Ramal: ramal, Name: name})
	}
	sort.Slice(origins, func(i, j int) bool {
		return origins[i].Ramal < origins[j].Ramal
	})
	return origins
}

// Len returns the number of known ramais.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
