package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vessfm/logger"
	"vessfm/model"

	"github.com/dhowden/tag"
)

// unknownArtist is the fallback artist name for files without an artist tag.
const unknownArtist = "Unknown Artist"

// TagReader extracts a normalized TagBag from an audio file's embedded
// metadata. Pure read, no side effects on the catalog.
type TagReader struct {
	probe *DurationProber // nil disables duration probing
}

// NewTagReader creates a tag reader. probe may be nil; tracks then get
// duration 0.
func NewTagReader(probe *DurationProber) *TagReader {
	return &TagReader{probe: probe}
}

// Extract reads the tag container at path. Every field has a fallback, so
// the only failure mode is a file that cannot be opened or parsed at all.
func (r *TagReader) Extract(ctx context.Context, path string) (*model.TagBag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableMedia, filepath.Base(path), err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableMedia, filepath.Base(path), err)
	}

	bag := &model.TagBag{
		Title:   strings.TrimSpace(meta.Title()),
		Artists: splitArtistNames(meta.Artist()),
		Album:   strings.TrimSpace(meta.Album()),
		Genre:   strings.TrimSpace(meta.Genre()),
		Lyrics:  meta.Lyrics(),
		RawDate: rawDate(meta),
	}
	bag.TrackNumber, _ = meta.Track()

	if bag.Title == "" {
		bag.Title = filenameStem(path)
	}
	if len(bag.Artists) == 0 {
		bag.Artists = []string{unknownArtist}
	}
	if bag.Genre == "" {
		bag.Genre = "Unknown"
	}

	bag.AlbumArtist = strings.TrimSpace(meta.AlbumArtist())
	if bag.AlbumArtist == "" {
		bag.AlbumArtist = bag.Artists[0]
	}

	if pic := meta.Picture(); pic != nil && len(pic.Data) > 0 {
		bag.Picture = pic.Data
		bag.PictureExt = pictureExt(pic)
	}

	if r.probe != nil {
		duration, err := r.probe.Duration(ctx, path)
		if err != nil {
			logger.Warn("could not probe audio duration, storing 0",
				logger.String("file", filepath.Base(path)),
				logger.ErrorField(err))
		} else {
			bag.Duration = int(duration)
		}
	}

	return bag, nil
}

// splitArtistNames splits a comma-separated artist field into trimmed
// candidate names, in order. Duplicates are kept; the assembler deduplicates
// by identity, not by string.
func splitArtistNames(field string) []string {
	names := make([]string, 0, 2)
	for _, part := range strings.Split(field, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// rawDate digs the release date string out of the container. ID3v2.3 uses
// TYER, v2.4 uses TDRC, Vorbis/MP4 use "date"; when no frame is present the
// current year is the fallback.
func rawDate(meta tag.Metadata) string {
	raw := meta.Raw()
	for _, key := range []string{"date", "DATE", "TDRC", "TDRL", "TYER", "year", "YEAR"} {
		if val, ok := raw[key]; ok {
			if s := strings.TrimSpace(fmt.Sprintf("%v", val)); s != "" {
				return s
			}
		}
	}
	if year := meta.Year(); year != 0 {
		return strconv.Itoa(year)
	}
	return strconv.Itoa(time.Now().Year())
}

// ParsePublishDate parses a raw tag date. Tries full date, then year only;
// anything else falls back to the current timestamp instead of erroring.
func ParsePublishDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006", raw); err == nil {
		return t
	}
	return time.Now()
}

func filenameStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pictureExt(pic *tag.Picture) string {
	ext := strings.ToLower(strings.TrimPrefix(pic.Ext, "."))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(pic.MIMEType, "image/"))
	}
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return ext
	default:
		return "png"
	}
}
