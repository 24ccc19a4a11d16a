package model

import (
	"database/sql"
	"time"
)

// Album is a catalog album. The (ArtistID, Title) pair is the identity key
// used for deduplication; ArtistID is the album artist, which may differ
// from the per-track artists.
type Album struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`
	ArtistID    int64          `json:"artistId"`
	Title       string         `json:"title"`
	ReleaseDate time.Time      `json:"releaseDate"`
	CoverPath   string         `json:"coverPath"`
	Genre       string         `json:"genre"`
	Description sql.NullString `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// AlbumWithTracks bundles an album with its tracks for API responses.
// The track list is derived from tracks.album_id, not stored on the album.
type AlbumWithTracks struct {
	Album  Album    `json:"album"`
	Tracks []*Track `json:"tracks"`
}
