package video

import (
	"context"

	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// Episode is a playable episode of a show
type Episode struct {
	Video
	playable

	// Full records only
	Directors []Tag
	Writers   []Tag
}

func (e *Episode) setData(rec plex.Metadata, initPath string) {
	e.Video.setData(rec, initPath)

	e.Directors, e.Writers = nil, nil
	if e.IsFullObject() {
		e.Directors = tags(rec.Director)
		e.Writers = tags(rec.Writer)
	}

	e.setPlayable(e.lib.server, rec, e.IsFullObject())
}

// DefaultThumb prefers the show poster, then the season poster
func (e *Episode) DefaultThumb() string {
	switch {
	case e.GrandparentThumb != "":
		return e.GrandparentThumb
	case e.ParentThumb != "":
		return e.ParentThumb
	default:
		return e.Thumb
	}
}

// IsWatched reports whether the episode has been played at least once
func (e *Episode) IsWatched() bool { return e.leafWatched() }

// StreamURL builds a transcoded HLS URL for the episode
func (e *Episode) StreamURL(opts ...StreamOption) (string, error) {
	return e.streamURL(opts...)
}

// Season fetches the season the episode belongs to
func (e *Episode) Season(ctx context.Context) (*Season, error) {
	return firstAs[*Season](ctx, e.lib, e.ParentKey)
}

// Show fetches the show the episode belongs to
func (e *Episode) Show(ctx context.Context) (*Show, error) {
	return firstAs[*Show](ctx, e.lib, e.GrandparentKey)
}
