package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vessfm/model"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	// Create persists a track together with its ordered artist links in a
	// single transaction. Either the whole track lands or nothing does.
	Create(ctx context.Context, track *model.Track) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.Track, error)

	ListByUser(ctx context.Context, userID int64) ([]*model.Track, error)

	Delete(ctx context.Context, id, userID int64) error
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

const trackColumns = `id, user_id, album_id, title, duration, file_path, cover_path, genre, track_number, publish_date, lyrics, created_at, updated_at`

// Create adds a new track and its artist links.
func (r *mysqlTrackRepository) Create(ctx context.Context, track *model.Track) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for CreateTrack: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tracks (user_id, album_id, title, duration, file_path, cover_path, genre, track_number, publish_date, lyrics, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	res, err := tx.ExecContext(ctx, query,
		track.UserID,
		track.AlbumID,
		track.Title,
		track.Duration,
		track.FilePath,
		track.CoverPath,
		track.Genre,
		track.TrackNumber,
		track.PublishDate,
		track.Lyrics,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert track %q: %w", track.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for track %q: %w", track.Title, err)
	}

	linkQuery := `INSERT INTO track_artists (track_id, artist_id, position) VALUES (?, ?, ?)`
	for pos, artistID := range track.ArtistIDs {
		if _, err := tx.ExecContext(ctx, linkQuery, id, artistID, pos); err != nil {
			return 0, fmt.Errorf("failed to link track %d to artist %d: %w", id, artistID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit CreateTrack: %w", err)
	}

	track.ID = id
	track.CreatedAt = now
	track.UpdatedAt = now
	return id, nil
}

// GetByID retrieves a track by its ID, including its ordered artist ids.
func (r *mysqlTrackRepository) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	track, err := scanTrackRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	if track == nil {
		return nil, nil
	}

	if err := r.loadArtistIDs(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// ListByUser retrieves all tracks owned by a user, newest first.
func (r *mysqlTrackRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for user ID %d: %w", userID, err)
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
			return nil, fmt.Errorf("failed to scan track in ListByUser: %w", err)
		}
		track.Lyrics = lyrics.String
		tracks = append(tracks, track)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListByUser: %w", err)
	}

	for _, track := range tracks {
		if err := r.loadArtistIDs(ctx, track); err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

// Delete removes a track and its artist links, owner-checked.
func (r *mysqlTrackRepository) Delete(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for DeleteTrack: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tracks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for DeleteTrack: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM track_artists WHERE track_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete artist links for track %d: %w", id, err)
	}

	return tx.Commit()
}

func scanTrackRow(row *sql.Row) (*model.Track, error) {
	track := &model.Track{}
	var lyrics sql.NullString
	err := row.Scan(
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
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	track.Lyrics = lyrics.String
	return track, nil
}

func (r *mysqlTrackRepository) loadArtistIDs(ctx context.Context, track *model.Track) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artist_id FROM track_artists WHERE track_id = ? ORDER BY position`, track.ID)
	if err != nil {
		return fmt.Errorf("failed to query artist links for track %d: %w", track.ID, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var artistID int64
		if err := rows.Scan(&artistID); err != nil {
			return fmt.Errorf("failed to scan artist link for track %d: %w", track.ID, err)
		}
		ids = append(ids, artistID)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error during artist link iteration for track %d: %w", track.ID, err)
	}
	track.ArtistIDs = ids
	return nil
}
