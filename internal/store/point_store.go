package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/ecoleta/internal/domain"
)

const pointColumns = `p.id, p.image, p.name, p.email, p.whatsapp, p.latitude, p.longitude, p.city, p.uf`

type PointStore struct {
	db *sql.DB
}

func NewPointStore(db *sql.DB) *PointStore {
	return &PointStore{db: db}
}

// Create inserts the point and one point_items row per item id in a single
// transaction. Either every row is written or none is.
func (s *PointStore) Create(ctx context.Context, point *domain.Point, itemIDs []int64) (*domain.Point, error) {
	if len(itemIDs) == 0 {
		return nil, domain.ErrNoItems
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO points (image, name, email, whatsapp, latitude, longitude, city, uf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, point.Image, point.Name, point.Email, point.WhatsApp, point.Latitude, point.Longitude, point.City, point.UF)
	if err != nil {
		return nil, fmt.Errorf("failed to create point: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO point_items (point_id, item_id) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare point item insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("failed to close statement", "error", err)
		}
	}()

	for _, itemID := range itemIDs {
		if _, err := stmt.ExecContext(ctx, id, itemID); err != nil {
			return nil, fmt.Errorf("failed to link item %d: %w", itemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point: %w", err)
	}

	created := *point
	created.ID = id
	return &created, nil
}

func (s *PointStore) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	point := &domain.Point{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+pointColumns+` FROM points p WHERE p.id = ?
	`, id).Scan(pointFields(point)...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("point %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	return point, nil
}

// View returns the point with the titles of the items it accepts.
func (s *PointStore) View(ctx context.Context, id int64) (*domain.PointDetail, error) {
	point, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.title FROM items i
		JOIN point_items pi ON pi.item_id = i.id
		WHERE pi.point_id = ?
		ORDER BY i.id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list point items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan item title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating point items: %w", err)
	}

	return &domain.PointDetail{Point: point, ItemTitles: titles}, nil
}

// List returns points matching filter. City and UF match case-insensitively
// anywhere in the value; each point appears once however many of the
// requested items it accepts.
func (s *PointStore) List(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	var query strings.Builder
	query.WriteString(`SELECT DISTINCT ` + pointColumns + ` FROM points p
		JOIN point_items pi ON pi.point_id = p.id
		WHERE unicode_lower(p.city) LIKE ? ESCAPE '\'
		AND unicode_lower(p.uf) LIKE ? ESCAPE '\'`)
	args := []any{containsPattern(filter.City), containsPattern(filter.UF)}

	if len(filter.ItemIDs) > 0 {
		query.WriteString(` AND pi.item_id IN (?` + strings.Repeat(", ?", len(filter.ItemIDs)-1) + `)`)
		for _, id := range filter.ItemIDs {
			args = append(args, id)
		}
	}
	query.WriteString(` ORDER BY p.id ASC`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	points := []*domain.Point{}
	for rows.Next() {
		point := &domain.Point{}
		if err := rows.Scan(pointFields(point)...); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}

	return points, nil
}

// Update replaces the mutable fields of a point. The stored image is never
// changed.
func (s *PointStore) Update(ctx context.Context, id int64, point *domain.Point) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE points SET
			name = ?, email = ?, whatsapp = ?,
			latitude = ?, longitude = ?,
			city = ?, uf = ?
		WHERE id = ?
	`, point.Name, point.Email, point.WhatsApp, point.Latitude, point.Longitude, point.City, point.UF, id)
	if err != nil {
		return fmt.Errorf("failed to update point: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("point %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a point and its item associations.
func (s *PointStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM point_items WHERE point_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete point items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("point %d: %w", id, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit point delete: %w", err)
	}
	return nil
}

func pointFields(p *domain.Point) []any {
	return []any{&p.ID, &p.Image, &p.Name, &p.Email, &p.WhatsApp, &p.Latitude, &p.Longitude, &p.City, &p.UF}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with LIKE
// wildcards in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
