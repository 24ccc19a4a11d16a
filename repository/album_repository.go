package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vessfm/model"
)

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	// FindByTitleAndArtist returns the album matching the (title, artistID)
	// identity key, or nil when absent.
	FindByTitleAndArtist(ctx context.Context, title string, artistID int64) (*model.Album, error)

	// Create inserts a new album. When another writer already created an
	// album with the same (artistID, title), the existing row is returned.
	Create(ctx context.Context, album *model.Album) (*model.Album, error)

	GetByID(ctx context.Context, id int64) (*model.Album, error)

	List(ctx context.Context, limit, offset int) ([]*model.Album, error)

	// GetAlbumTracks returns the tracks linked to an album, derived from
	// tracks.album_id.
	GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error)

	Update(ctx context.Context, album *model.Album) error

	Delete(ctx context.Context, id, userID int64) error
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new instance of mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

const albumColumns = `id, user_id, artist_id, title, release_date, cover_path, genre, description, created_at, updated_at`

func scanAlbum(row *sql.Row) (*model.Album, error) {
	album := &model.Album{}
	err := row.Scan(
		&album.ID,
		&album.UserID,
		&album.ArtistID,
		&album.Title,
		&album.ReleaseDate,
		&album.CoverPath,
		&album.Genre,
		&album.Description,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return album, nil
}

// FindByTitleAndArtist retrieves an album by its identity key.
func (r *mysqlAlbumRepository) FindByTitleAndArtist(ctx context.Context, title string, artistID int64) (*model.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE artist_id = ? AND title = ?`
	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, artistID, title))
	if err != nil {
		return nil, fmt.Errorf("failed to query album %q for artist %d: %w", title, artistID, err)
	}
	return album, nil
}

// GetByID retrieves an album by its ID.
func (r *mysqlAlbumRepository) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = ?`
	album, err := scanAlbum(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to query album by ID %d: %w", id, err)
	}
	return album, nil
}

// Create adds a new album. A duplicate-key rejection means a concurrent
// ingestion won the insert; the existing row is fetched and returned, and
// its stored cover takes precedence over the one passed in.
func (r *mysqlAlbumRepository) Create(ctx context.Context, album *model.Album) (*model.Album, error) {
	query := `
		INSERT INTO albums (user_id, artist_id, title, release_date, cover_path, genre, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		album.UserID,
		album.ArtistID,
		album.Title,
		album.ReleaseDate,
		album.CoverPath,
		album.Genre,
		album.Description,
		now,
		now,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			existing, ferr := r.FindByTitleAndArtist(ctx, album.Title, album.ArtistID)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to insert album %q: %w", album.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID for album %q: %w", album.Title, err)
	}

	album.ID = id
	album.CreatedAt = now
	album.UpdatedAt = now
	return album, nil
}

// List retrieves albums ordered by creation time.
func (r *mysqlAlbumRepository) List(ctx context.Context, limit, offset int) ([]*model.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := make([]*model.Album, 0)
	for rows.Next() {
		album := &model.Album{}
		err := rows.Scan(
			&album.ID,
			&album.UserID,
			&album.ArtistID,
			&album.Title,
			&album.ReleaseDate,
			&album.CoverPath,
			&album.Genre,
			&album.Description,
			&album.CreatedAt,
			&album.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album in List: %w", err)
		}
		albums = append(albums, album)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in List: %w", err)
	}
	return albums, nil
}

// GetAlbumTracks returns the tracks whose album_id points at the album.
func (r *mysqlAlbumRepository) GetAlbumTracks(ctx context.Context, albumID int64) ([]*model.Track, error) {
	query := `
		SELECT id, user_id, album_id, title, duration, file_path, cover_path, genre, track_number, publish_date, lyrics, created_at, updated_at
		FROM tracks
		WHERE album_id = ?
		ORDER BY track_number, title
	`
	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for album %d: %w", albumID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track := &model.Track{}
		var lyrics sql.NullString
		err := rows.Scan(
			&track.ID,
			&track.UserID,
			&track.AlbumID,
			&track.Title,
			&track.Duration,
			&track.FilePath,
			&track.CoverPath,
			&track.Genre,
			&track.TrackNumber,
			&track.PublishDate,
			&lyrics,
			&track.CreatedAt,
			&track.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in GetAlbumTracks: %w", err)
		}
		track.Lyrics = lyrics.String
		tracks = append(tracks, track)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAlbumTracks: %w", err)
	}
	return tracks, nil
}

// Update updates mutable album fields, owner-checked.
func (r *mysqlAlbumRepository) Update(ctx context.Context, album *model.Album) error {
	query := `
		UPDATE albums
		SET title = ?, release_date = ?, cover_path = ?, genre = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		album.Title,
		album.ReleaseDate,
		album.CoverPath,
		album.Genre,
		album.Description,
		time.Now(),
		album.ID,
		album.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update album %d: %w", album.ID, err)
	}
	return nil
}

// Delete removes an album, owner-checked.
func (r *mysqlAlbumRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM albums WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete album %d: %w", id, err)
	}
	return nil
}
