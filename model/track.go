package model

import (
	"database/sql"
	"time"
)

// Track is a catalog track. ArtistIDs is ordered; order matters for display
// but not for identity. AlbumID is unset when the source file carried no
// album tag.
type Track struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	AlbumID     sql.NullInt64 `json:"albumId"`
	Title       string        `json:"title"`
	ArtistIDs   []int64       `json:"artistIds"`
	Duration    int           `json:"duration"` // seconds
	FilePath    string        `json:"filePath"`
	CoverPath   string        `json:"coverPath"`
	Genre       string        `json:"genre"`
	TrackNumber sql.NullInt64 `json:"trackNumber"`
	PublishDate time.Time     `json:"publishDate"`
	Lyrics      string        `json:"lyrics"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
