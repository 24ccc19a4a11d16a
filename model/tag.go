package model

// TagBag holds the normalized metadata read from an audio file's embedded
// tag container. It is transient; nothing here is persisted directly.
type TagBag struct {
	Title       string
	Artists     []string // candidate artist names, in tag order, not deduplicated
	Album       string
	AlbumArtist string
	Genre       string
	RawDate     string // as found in the container; parsed later with fallbacks
	Lyrics      string
	TrackNumber int
	Duration    int // seconds, 0 when probing failed

	// Embedded picture, if any. Absence is not an error.
	Picture    []byte
	PictureExt string // "png", "jpeg", ... without the dot
}

// HasPicture reports whether the container carried embedded artwork.
func (b *TagBag) HasPicture() bool {
	return len(b.Picture) > 0
}
