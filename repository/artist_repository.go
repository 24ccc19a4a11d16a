package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vessfm/model"
)

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	// FindByName returns the artist with the exact name, or nil when absent.
	FindByName(ctx context.Context, name string) (*model.Artist, error)

	// Create inserts a new artist. When another writer already created an
	// artist with the same name, the existing row is returned instead.
	Create(ctx context.Context, artist *model.Artist) (*model.Artist, error)

	GetByID(ctx context.Context, id int64) (*model.Artist, error)

	List(ctx context.Context, limit, offset int) ([]*model.Artist, error)
}

// mysqlArtistRepository implements ArtistRepository for MySQL.
type mysqlArtistRepository struct {
	db *sql.DB
}

// NewMySQLArtistRepository creates a new instance of mysqlArtistRepository.
func NewMySQLArtistRepository(db *sql.DB) ArtistRepository {
	return &mysqlArtistRepository{db: db}
}

const artistColumns = `id, name, bio, image_url, created_at, updated_at`

func scanArtist(row *sql.Row) (*model.Artist, error) {
	artist := &model.Artist{}
	err := row.Scan(&artist.ID, &artist.Name, &artist.Bio, &artist.ImageURL, &artist.CreatedAt, &artist.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return artist, nil
}

// FindByName retrieves an artist by its exact name.
func (r *mysqlArtistRepository) FindByName(ctx context.Context, name string) (*model.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE name = ?`
	artist, err := scanArtist(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to query artist by name %q: %w", name, err)
	}
	return artist, nil
}

// GetByID retrieves an artist by its ID.
func (r *mysqlArtistRepository) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`
	artist, err := scanArtist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to query artist by ID %d: %w", id, err)
	}
	return artist, nil
}

// Create adds a new artist. A duplicate-key rejection means a concurrent
// ingestion won the insert; the existing row is fetched and returned.
func (r *mysqlArtistRepository) Create(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	query := `INSERT INTO artists (name, bio, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, artist.Name, artist.Bio, artist.ImageURL, now, now)
	if err != nil {
		if isDuplicateEntry(err) {
			existing, ferr := r.FindByName(ctx, artist.Name)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to insert artist %q: %w", artist.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID for artist %q: %w", artist.Name, err)
	}

	artist.ID = id
	artist.CreatedAt = now
	artist.UpdatedAt = now
	return artist, nil
}

// List retrieves artists ordered by name.
func (r *mysqlArtistRepository) List(ctx context.Context, limit, offset int) ([]*model.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY name LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := make([]*model.Artist, 0)
	for rows.Next() {
		artist := &model.Artist{}
		err := rows.Scan(&artist.ID, &artist.Name, &artist.Bio, &artist.ImageURL, &artist.CreatedAt, &artist.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist in List: %w", err)
		}
		artists = append(artists, artist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in List: %w", err)
	}
	return artists, nil
}
