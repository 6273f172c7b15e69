package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/shared"
)

// LinkRepository implements [models.Repository] for saved wishlist [models.Link] persistence.
type LinkRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Link] = (*LinkRepository)(nil)

// NewLinkRepository creates a new [LinkRepository] with the given database connection
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new link with a generated ID. Names are unique.
func (r *LinkRepository) Create(link *models.Link) error {
	if err := link.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	_, err := r.db.Exec(
		`INSERT INTO links (id, name, wishlist_id, url, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, link.Name(), link.WishlistID(), link.URL(), string(link.Role()), link.CreatedAt(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %s", shared.ErrLinkExists, link.Name())
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	link.SetID(id)
	return nil
}

// Get retrieves a link by ID
func (r *LinkRepository) Get(id string) (*models.Link, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, wishlist_id, url, role, created_at FROM links WHERE id = ?`, id,
	), id)
}

// GetByName retrieves a link by its unique name
func (r *LinkRepository) GetByName(name string) (*models.Link, error) {
	name = strings.TrimSpace(name)
	return r.scanOne(r.db.QueryRow(
		`SELECT id, name, wishlist_id, url, role, created_at FROM links WHERE name = ?`, name,
	), name)
}

// Delete removes a link by ID or name
func (r *LinkRepository) Delete(idOrName string) error {
	result, err := r.db.Exec(`DELETE FROM links WHERE id = ? OR name = ?`, idOrName, idOrName)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLinkNotFound, idOrName)
	}

	return nil
}

// List returns every saved link ordered by name
func (r *LinkRepository) List() ([]*models.Link, error) {
	rows, err := r.db.Query(`SELECT id, name, wishlist_id, url, role, created_at FROM links ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}

	return links, nil
}

func (r *LinkRepository) scanOne(row *sql.Row, key string) (*models.Link, error) {
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrLinkNotFound, key)
	}
	return link, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.Link, error) {
	var (
		id, name, wishlistID, rawURL, role string
		createdAt                          time.Time
	)
	if err := s.Scan(&id, &name, &wishlistID, &rawURL, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan link: %w", err)
	}
	return models.RestoreLink(id, name, wishlistID, rawURL, models.LinkRole(role), createdAt), nil
}
