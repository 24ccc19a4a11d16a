package model

import (
	"database/sql"
	"time"
)

// Artist is a catalog artist. Name is the identity key and is unique
// (case-sensitive exact match).
type Artist struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Bio       sql.NullString `json:"bio"`
	ImageURL  sql.NullString `json:"imageUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
