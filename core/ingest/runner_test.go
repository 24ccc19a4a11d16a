package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFixture struct {
	extractor *fakeExtractor
	artists   *fakeArtistRepo
	tracks    *fakeTrackRepo
	hub       *EventHub
	runner    *Runner
}

func newRunnerFixture(workers, queueSize int) *runnerFixture {
	f := &runnerFixture{
		extractor: newFakeExtractor(),
		artists:   newFakeArtistRepo(),
		tracks:    newFakeTrackRepo(),
		hub:       NewEventHub(),
	}
	resolver := NewResolver(f.artists, newFakeAlbumRepo(), nil)
	assembler := NewAssembler(resolver, NewArtworkExtractor(&fakeCoverStore{}), f.tracks)
	f.runner = NewRunner(f.extractor, assembler, f.hub, workers, queueSize, 1)
	return f
}

func TestRunnerProcessesQueuedJobs(t *testing.T) {
	f := newRunnerFixture(2, 8)
	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("/music/song-%d.mp3", i)
		f.extractor.bags[path] = testBag(fmt.Sprintf("Song %d", i), "Band X", "Album Y")
	}

	f.runner.Start()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.runner.Enqueue(Job{FilePath: fmt.Sprintf("/music/song-%d.mp3", i), OwnerID: 1}))
	}
	f.runner.Stop()

	assert.Len(t, f.tracks.all(), 3)
	assert.Equal(t, 1, f.artists.count(), "all three tracks share one artist")
}

func TestRunnerIsolatesFailures(t *testing.T) {
	f := newRunnerFixture(1, 8)
	f.extractor.bags["/music/good-1.mp3"] = testBag("Good 1", "Band X", "")
	f.extractor.errs["/music/bad.mp3"] = fmt.Errorf("%w: bad.mp3: truncated", ErrUnreadableMedia)
	f.extractor.bags["/music/good-2.mp3"] = testBag("Good 2", "Band X", "")

	events, cancel := f.hub.Subscribe()
	defer cancel()

	f.runner.Start()
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/good-1.mp3", OwnerID: 1}))
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/bad.mp3", OwnerID: 1}))
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/good-2.mp3", OwnerID: 1}))
	f.runner.Stop()

	assert.Len(t, f.tracks.all(), 2, "one unreadable file must not stop the others")

	counts := map[EventType]int{}
	for len(events) > 0 {
		e := <-events
		counts[e.Type]++
	}
	assert.Equal(t, 3, counts[EventQueued])
	assert.Equal(t, 2, counts[EventCompleted])
	assert.Equal(t, 1, counts[EventFailed])
}

func TestRunnerStopDrainsQueue(t *testing.T) {
	f := newRunnerFixture(1, 16)
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/music/song-%d.mp3", i)
		f.extractor.bags[path] = testBag(fmt.Sprintf("Song %d", i), "Band X", "")
	}

	f.runner.Start()
	for i := 0; i < 10; i++ {
		require.NoError(t, f.runner.Enqueue(Job{FilePath: fmt.Sprintf("/music/song-%d.mp3", i), OwnerID: 1}))
	}
	f.runner.Stop()

	assert.Len(t, f.tracks.all(), 10, "accepted jobs are not dropped by shutdown")
}

func TestRunnerQueueFull(t *testing.T) {
	f := newRunnerFixture(1, 1)
	// Not started, so the single queue slot fills immediately.
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/a.mp3"}))

	err := f.runner.Enqueue(Job{FilePath: "/music/b.mp3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
}

func TestRunnerOwnerFallsBackToSystemUser(t *testing.T) {
	f := newRunnerFixture(1, 4)
	f.extractor.bags["/music/anon.mp3"] = testBag("Anon", "Band X", "")

	f.runner.Start()
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/anon.mp3", OwnerID: 0}))
	f.runner.Stop()

	tracks := f.tracks.all()
	require.Len(t, tracks, 1)
	assert.Equal(t, int64(1), tracks[0].UserID)
}

func TestRunnerConcurrentSameArtistConverges(t *testing.T) {
	f := newRunnerFixture(4, 32)
	const n = 12
	for i := 0; i < n; i++ {
		path := fmt.Sprintf("/music/song-%d.mp3", i)
		f.extractor.bags[path] = testBag(fmt.Sprintf("Song %d", i), "Band X", "Album Y")
	}

	f.runner.Start()
	for i := 0; i < n; i++ {
		require.NoError(t, f.runner.Enqueue(Job{FilePath: fmt.Sprintf("/music/song-%d.mp3", i), OwnerID: 1}))
	}
	f.runner.Stop()

	tracks := f.tracks.all()
	require.Len(t, tracks, n)

	assert.Equal(t, 1, f.artists.count(), "parallel workers must not duplicate the artist")
	first := tracks[0]
	require.True(t, first.AlbumID.Valid)
	for _, track := range tracks {
		assert.Equal(t, first.ArtistIDs, track.ArtistIDs)
		assert.Equal(t, first.AlbumID.Int64, track.AlbumID.Int64)
	}
}

func TestRunnerEnqueueWaitHonorsContext(t *testing.T) {
	f := newRunnerFixture(1, 1)
	require.NoError(t, f.runner.Enqueue(Job{FilePath: "/music/a.mp3"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.runner.EnqueueWait(ctx, Job{FilePath: "/music/b.mp3"})
	assert.ErrorIs(t, err, context.Canceled)
}
