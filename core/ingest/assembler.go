package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"vessfm/logger"
	"vessfm/model"
	"vessfm/repository"
)

// Assembler orchestrates the resolver and artwork extractor to build and
// persist a Track from a tag bag. Artist and Album rows created along the
// way are permanent catalog entries even when the Track itself fails to
// persist; only the Track write is all-or-nothing.
type Assembler struct {
	resolver *Resolver
	artwork  *ArtworkExtractor
	tracks   repository.TrackRepository
}

// NewAssembler creates a catalog assembler.
func NewAssembler(resolver *Resolver, artwork *ArtworkExtractor, tracks repository.TrackRepository) *Assembler {
	return &Assembler{resolver: resolver, artwork: artwork, tracks: tracks}
}

// Assemble resolves every identity in the tag bag and persists the Track.
// uploadCover is the externally supplied cover reference, which takes
// precedence over anything extracted from the file.
func (a *Assembler) Assemble(ctx context.Context, bag *model.TagBag, filePath, uploadCover string, ownerID int64) (*model.Track, error) {
	// Artist links are deduplicated by identity, keeping first-seen order,
	// so a repeated name in the tag yields a single link.
	artistIDs := make([]int64, 0, len(bag.Artists))
	seen := make(map[int64]struct{}, len(bag.Artists))
	for _, name := range bag.Artists {
		id, err := a.resolver.ResolveArtist(ctx, name)
		if err != nil {
			return nil, a.fail(filePath, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		artistIDs = append(artistIDs, id)
	}

	publishDate := ParsePublishDate(bag.RawDate)

	// Embedded artwork is only worth persisting when no external cover was
	// supplied. A failed write is logged and the ingestion continues.
	embeddedCover := ""
	if uploadCover == "" && bag.HasPicture() {
		ref, err := a.artwork.Persist(ctx, bag.Picture, bag.PictureExt)
		if err != nil {
			logger.Warn("failed to persist embedded artwork, continuing without cover",
				logger.String("file", filepath.Base(filePath)),
				logger.ErrorField(err))
		} else {
			embeddedCover = ref
		}
	}

	var albumID sql.NullInt64
	albumCover := ""
	if bag.Album != "" && bag.AlbumArtist != "" {
		albumArtistID, err := a.resolver.ResolveArtist(ctx, bag.AlbumArtist)
		if err != nil {
			return nil, a.fail(filePath, err)
		}

		newAlbumCover := embeddedCover
		if newAlbumCover == "" {
			newAlbumCover = uploadCover
		}
		album, err := a.resolver.ResolveAlbum(ctx, AlbumParams{
			Title:       bag.Album,
			ArtistID:    albumArtistID,
			CoverPath:   newAlbumCover,
			Genre:       bag.Genre,
			ReleaseDate: publishDate,
			OwnerID:     ownerID,
		})
		if err != nil {
			return nil, a.fail(filePath, err)
		}
		albumID = sql.NullInt64{Int64: album.ID, Valid: true}
		albumCover = album.CoverPath
	}

	// Track cover precedence: upload-supplied > embedded > album's cover.
	cover := uploadCover
	if cover == "" {
		cover = embeddedCover
	}
	if cover == "" {
		cover = albumCover
	}

	track := &model.Track{
		UserID:      ownerID,
		AlbumID:     albumID,
		Title:       bag.Title,
		ArtistIDs:   artistIDs,
		Duration:    bag.Duration,
		FilePath:    filePath,
		CoverPath:   cover,
		Genre:       bag.Genre,
		PublishDate: publishDate,
		Lyrics:      bag.Lyrics,
	}
	if bag.TrackNumber > 0 {
		track.TrackNumber = sql.NullInt64{Int64: int64(bag.TrackNumber), Valid: true}
	}

	if _, err := a.tracks.Create(ctx, track); err != nil {
		return nil, a.fail(filePath, err)
	}
	return track, nil
}

func (a *Assembler) fail(filePath string, err error) error {
	return fmt.Errorf("ingest %s: %w", filepath.Base(filePath), err)
}
