package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/ecoleta/internal/db"
	"github.com/vbonduro/ecoleta/internal/domain"
)

// openTestDB returns a migrated in-memory database. The migrations seed six
// items with ids 1 through 6.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newPoint(name, city, uf string) *domain.Point {
	return &domain.Point{
		Image:     "abc123-photo.jpg",
		Name:      name,
		Email:     "contato@example.com",
		WhatsApp:  "11999999999",
		Latitude:  -23.5505,
		Longitude: -46.6333,
		City:      city,
		UF:        uf,
	}
}

func countRows(t *testing.T, d *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
