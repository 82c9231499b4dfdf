// Package video models the video entities of a Plex library (movies, shows,
// seasons, episodes and clips) over records returned by the server.
//
// Records come in two shapes. Listing endpoints return sparse records; the
// detail endpoint returns full ones. Collections that need a full record
// (genres, roles, media versions, ...) stay nil on a sparse entity, meaning
// "not yet known". On a full entity they are non-nil, possibly empty.
package video

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// libraryIdentifier names the library plugin in scrobble requests
const libraryIdentifier = "com.plexapp.plugins.library"

// Item is one of *Movie, *Show, *Season, *Episode or *Clip
type Item interface {
	Base() *Video
	IsWatched() bool
	Reload(ctx context.Context) error
	Refresh(ctx context.Context) error
	Analyze(ctx context.Context) error
	MarkWatched(ctx context.Context) error
	MarkUnwatched(ctx context.Context) error

	setData(rec plex.Metadata, initPath string)
}

// Tag is a metadata tag such as a genre, director or cast member
type Tag struct {
	ID    int
	Tag   string
	Role  string // character name for cast members
	Thumb string
}

func (t Tag) String() string { return t.Tag }

// tags converts a tag group. The result is never nil so a full record with no
// tags reads as known-empty.
func tags(in []plex.Tag) []Tag {
	out := make([]Tag, 0, len(in))
	for _, t := range in {
		out = append(out, Tag{ID: t.ID, Tag: t.Tag, Role: t.Role, Thumb: t.Thumb})
	}
	return out
}

// Video holds the fields and operations shared by every variant
type Video struct {
	Type           string
	RatingKey      string
	Key            string
	ParentKey      string
	GrandparentKey string
	GUID           string

	Title            string
	TitleSort        string
	Summary          string
	ContentRating    string
	ParentTitle      string
	GrandparentTitle string
	Thumb            string
	ParentThumb      string
	GrandparentThumb string
	Art              string
	Year             int
	Index            int
	ParentIndex      int

	ViewCount       int
	ViewedLeafCount int
	LeafCount       int
	ChildCount      int
	ViewOffset      time.Duration
	Duration        time.Duration
	LastViewedAt    int64
	AddedAt         int64
	UpdatedAt       int64

	initPath string
	full     bool
	lib      *Library
	self     Item
}

// Base returns the shared part of the entity
func (v *Video) Base() *Video { return v }

// IsFullObject reports whether the entity was hydrated from its own detail record
func (v *Video) IsFullObject() bool { return v.full }

// InitPath is the path the current record was fetched from
func (v *Video) InitPath() string { return v.initPath }

func (v *Video) setData(rec plex.Metadata, initPath string) {
	v.Type = rec.Type
	v.RatingKey = rec.RatingKey
	v.Key = rec.Key
	v.ParentKey = rec.ParentKey
	v.GrandparentKey = rec.GrandparentKey
	v.GUID = rec.GUID

	v.Title = rec.Title
	v.TitleSort = rec.TitleSort
	if v.TitleSort == "" {
		v.TitleSort = rec.Title
	}
	v.Summary = rec.Summary
	v.ContentRating = rec.ContentRating
	v.ParentTitle = rec.ParentTitle
	v.GrandparentTitle = rec.GrandparentTitle
	v.Thumb = rec.Thumb
	v.ParentThumb = rec.ParentThumb
	v.GrandparentThumb = rec.GrandparentThumb
	v.Art = rec.Art
	v.Year = rec.Year
	v.Index = rec.Index
	v.ParentIndex = rec.ParentIndex

	v.ViewCount = max(rec.ViewCount, 0)
	v.ViewedLeafCount = rec.ViewedLeafCount
	v.LeafCount = rec.LeafCount
	v.ChildCount = rec.ChildCount
	v.ViewOffset = time.Duration(rec.ViewOffset) * time.Millisecond
	v.Duration = time.Duration(rec.Duration) * time.Millisecond
	v.LastViewedAt = rec.LastViewedAt
	v.AddedAt = rec.AddedAt
	v.UpdatedAt = rec.UpdatedAt

	v.initPath = initPath
	v.full = initPath != "" && (initPath == rec.Key || initPath == metadataPath(rec.RatingKey))
}

// Reload re-fetches the full record and re-hydrates the entity in place.
// Lazily derived collections are recomputed on next access.
func (v *Video) Reload(ctx context.Context) error {
	path := metadataPath(v.RatingKey)
	rec, err := v.lib.fetchRecord(ctx, path)
	if err != nil {
		return err
	}
	v.self.setData(rec, path)
	return nil
}

// Analyze asks the server to run media analysis on the item
func (v *Video) Analyze(ctx context.Context) error {
	path := metadataPath(v.RatingKey) + "/analyze"
	if _, err := v.lib.server.Query(ctx, http.MethodPut, path, nil); err != nil {
		return fmt.Errorf("analyze %s: %w", v.RatingKey, err)
	}
	return nil
}

// Refresh asks the server to rescan the item's metadata. The rescan runs
// asynchronously on the server, so the entity is not reloaded.
func (v *Video) Refresh(ctx context.Context) error {
	return v.refreshPath(ctx, v.Key+"/refresh")
}

func (v *Video) refreshPath(ctx context.Context, path string) error {
	if _, err := v.lib.server.Query(ctx, http.MethodPut, path, nil); err != nil {
		return fmt.Errorf("refresh %s: %w", v.RatingKey, err)
	}
	v.lib.logger.Debug("refresh requested", "ratingKey", v.RatingKey, "path", path)
	return nil
}

// MarkWatched records the item as watched and reloads it.
// If the reload fails the error wraps domain.ErrReloadFailed: the server has
// recorded the change but the entity still shows the old state.
func (v *Video) MarkWatched(ctx context.Context) error {
	return v.scrobble(ctx, "/:/scrobble")
}

// MarkUnwatched records the item as unwatched and reloads it.
// Reload failures are reported as in MarkWatched.
func (v *Video) MarkUnwatched(ctx context.Context) error {
	return v.scrobble(ctx, "/:/unscrobble")
}

func (v *Video) scrobble(ctx context.Context, path string) error {
	query := url.Values{}
	query.Set("key", v.RatingKey)
	query.Set("identifier", libraryIdentifier)

	if _, err := v.lib.server.Query(ctx, http.MethodGet, path, query); err != nil {
		return fmt.Errorf("%s %s: %w", path, v.RatingKey, err)
	}
	v.lib.logger.Debug("scrobbled", "path", path, "ratingKey", v.RatingKey)

	if err := v.Reload(ctx); err != nil {
		v.lib.logger.Warn("reload after scrobble failed", "ratingKey", v.RatingKey, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrReloadFailed, err)
	}
	return nil
}

// leafWatched is the watch rule of playable items
func (v *Video) leafWatched() bool { return v.ViewCount > 0 }

// containerWatched is the watch rule of shows and seasons
func (v *Video) containerWatched() bool { return v.ViewedLeafCount == v.LeafCount }
