package ingest

import "errors"

var (
	// ErrUnreadableMedia marks an audio file whose tag container could not
	// be opened or parsed. Ingestion of that file aborts; siblings continue.
	ErrUnreadableMedia = errors.New("unreadable media file")

	// ErrStorageWrite marks a failed artwork write. Recovered locally:
	// the track is ingested without a cover.
	ErrStorageWrite = errors.New("artwork storage write failed")

	// ErrQueueFull is returned by Enqueue when the ingest queue has no
	// room. The caller decides whether to surface backpressure or wait.
	ErrQueueFull = errors.New("ingest queue full")
)
