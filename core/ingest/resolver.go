package ingest

import (
	"context"
	"fmt"
	"time"

	"vessfm/cache"
	"vessfm/model"
	"vessfm/repository"
)

// Resolver maps names from a tag bag onto catalog identities, creating
// Artist and Album rows the first time a name is seen. Creation is
// exactly-once per unique name: the repositories turn duplicate-key
// rejections into a re-fetch of the row a concurrent ingestion created.
type Resolver struct {
	artists repository.ArtistRepository
	albums  repository.AlbumRepository
	cache   *cache.ResolverCache // may be nil
}

// NewResolver creates a resolver. cache may be nil to disable caching.
func NewResolver(artists repository.ArtistRepository, albums repository.AlbumRepository, c *cache.ResolverCache) *Resolver {
	return &Resolver{artists: artists, albums: albums, cache: c}
}

// ResolveArtist returns the id of the artist with the exact name, creating
// it when absent. Sequential calls with the same name return the same id.
func (r *Resolver) ResolveArtist(ctx context.Context, name string) (int64, error) {
	if id, ok := r.cache.GetArtistID(ctx, name); ok {
		return id, nil
	}

	artist, err := r.artists.FindByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve artist %q: %w", name, err)
	}
	if artist == nil {
		artist, err = r.artists.Create(ctx, &model.Artist{Name: name})
		if err != nil {
			return 0, fmt.Errorf("create artist %q: %w", name, err)
		}
	}

	r.cache.SetArtistID(ctx, name, artist.ID)
	return artist.ID, nil
}

// AlbumParams carries everything needed to create an album on first sight.
type AlbumParams struct {
	Title       string
	ArtistID    int64 // the album artist
	CoverPath   string
	Genre       string
	ReleaseDate time.Time
	OwnerID     int64
}

// ResolveAlbum returns the album matching (title, artist id), creating it
// when absent. For an existing album the stored row is returned unchanged,
// so its cover takes precedence over p.CoverPath.
func (r *Resolver) ResolveAlbum(ctx context.Context, p AlbumParams) (*model.Album, error) {
	if id, ok := r.cache.GetAlbumID(ctx, p.ArtistID, p.Title); ok {
		album, err := r.albums.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve album %q: %w", p.Title, err)
		}
		if album != nil {
			return album, nil
		}
		// Stale cache entry; fall through to the database.
	}

	album, err := r.albums.FindByTitleAndArtist(ctx, p.Title, p.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("resolve album %q: %w", p.Title, err)
	}
	if album == nil {
		album, err = r.albums.Create(ctx, &model.Album{
			UserID:      p.OwnerID,
			ArtistID:    p.ArtistID,
			Title:       p.Title,
			ReleaseDate: p.ReleaseDate,
			CoverPath:   p.CoverPath,
			Genre:       p.Genre,
		})
		if err != nil {
			return nil, fmt.Errorf("create album %q: %w", p.Title, err)
		}
	}

	r.cache.SetAlbumID(ctx, p.ArtistID, p.Title, album.ID)
	return album, nil
}
