package model

import "time"

// Playlist is a user-curated track list. Managed through GORM, separate
// from the hand-written catalog repositories.
type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int64     `json:"userId" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"size:1000"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Tracks []PlaylistTrack `json:"tracks,omitempty" gorm:"foreignKey:PlaylistID"`
}

// PlaylistTrack links a track into a playlist at a position.
type PlaylistTrack struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"playlistId" gorm:"index;not null"`
	TrackID    int64     `json:"trackId" gorm:"index;not null"`
	Position   int       `json:"position" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName keeps the join table name explicit.
func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}
