package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// Type tags carried in the "type" attribute of library records
const (
	TypeMovie   = "movie"
	TypeShow    = "show"
	TypeSeason  = "season"
	TypeEpisode = "episode"
	TypeClip    = "clip"
	TypeTrack   = "track"
	TypeAlbum   = "album"
)

// URLBuilder resolves a server-relative path into an absolute URL
type URLBuilder = plex.URLBuilder

// Server is the media server handle entities use for follow-up requests.
// *plex.Client implements it.
type Server interface {
	Query(ctx context.Context, method, path string, query url.Values) (*plex.MediaContainer, error)
	QueryAsync(ctx context.Context, method, path string, query url.Values)
	TranscodeServer(itemType string) (URLBuilder, error)
}

// WatchFilter restricts listings by watch state
type WatchFilter int

const (
	AnyWatchState WatchFilter = iota
	OnlyWatched
	OnlyUnwatched
)

func (f WatchFilter) keep(viewCount int) bool {
	switch f {
	case OnlyWatched:
		return viewCount > 0
	case OnlyUnwatched:
		return viewCount == 0
	default:
		return true
	}
}

// Library builds entities from server records and is the read-only handle
// every entity keeps for follow-up requests.
type Library struct {
	server Server
	logger *slog.Logger
}

// NewLibrary creates a library over server
func NewLibrary(server Server, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		server: server,
		logger: logger,
	}
}

func metadataPath(ratingKey string) string {
	return "/library/metadata/" + ratingKey
}

func childrenPath(ratingKey string) string {
	return metadataPath(ratingKey) + "/children"
}

func allLeavesPath(ratingKey string) string {
	return metadataPath(ratingKey) + "/allLeaves"
}

// Build constructs the entity matching rec's type tag. initPath is the path
// the record was fetched from; it decides whether the record is full.
func (l *Library) Build(rec plex.Metadata, initPath string) (Item, error) {
	var item Item
	switch rec.Type {
	case TypeMovie:
		item = &Movie{}
	case TypeShow:
		item = &Show{}
	case TypeSeason:
		item = &Season{}
	case TypeEpisode:
		item = &Episode{}
	case TypeClip:
		item = &Clip{}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, rec.Type)
	}

	base := item.Base()
	base.lib = l
	base.self = item
	item.setData(rec, initPath)
	return item, nil
}

// Fetch retrieves the full record for ratingKey
func (l *Library) Fetch(ctx context.Context, ratingKey string) (Item, error) {
	path := metadataPath(ratingKey)
	rec, err := l.fetchRecord(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.Build(rec, path)
}

func (l *Library) fetchRecord(ctx context.Context, path string) (plex.Metadata, error) {
	container, err := l.server.Query(ctx, http.MethodGet, path, nil)
	if err != nil {
		return plex.Metadata{}, err
	}
	if len(container.Metadata) == 0 {
		return plex.Metadata{}, fmt.Errorf("%s: %w", path, domain.ErrItemNotFound)
	}
	return container.Metadata[0], nil
}

// List returns the entities at path. An empty libType accepts every type.
// Records with unknown type tags are skipped.
func (l *Library) List(ctx context.Context, path, libType string, filter WatchFilter) ([]Item, error) {
	container, err := l.server.Query(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(container.Metadata))
	for _, rec := range container.Metadata {
		if libType != "" && rec.Type != libType {
			continue
		}
		if !filter.keep(rec.ViewCount) {
			continue
		}
		item, err := l.Build(rec, path)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownVariant) {
				l.logger.Debug("skipping record", "path", path, "type", rec.Type, "ratingKey", rec.RatingKey)
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Find returns the first entity at path whose title matches, ignoring case and accents
func (l *Library) Find(ctx context.Context, path, title string) (Item, error) {
	container, err := l.server.Query(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	for _, rec := range container.Metadata {
		if !titleMatches(rec.Title, title) {
			continue
		}
		item, err := l.Build(rec, path)
		if errors.Is(err, domain.ErrUnknownVariant) {
			continue
		}
		return item, err
	}
	return nil, fmt.Errorf("%q: %w", title, domain.ErrItemNotFound)
}

// titleMatches reports whether a and b are the same title after case folding
// and accent removal. Two strings that are subsequences of each other are equal.
func titleMatches(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	return fuzzy.MatchNormalizedFold(a, b) && fuzzy.MatchNormalizedFold(b, a)
}

func listAs[T Item](ctx context.Context, l *Library, path, libType string, filter WatchFilter) ([]T, error) {
	items, err := l.List(ctx, path, libType, filter)
	if err != nil {
		return nil, err
	}
	typed := make([]T, 0, len(items))
	for _, it := range items {
		if t, ok := it.(T); ok {
			typed = append(typed, t)
		}
	}
	return typed, nil
}

func findAs[T Item](ctx context.Context, l *Library, path, title string) (T, error) {
	var zero T
	item, err := l.Find(ctx, path, title)
	if err != nil {
		return zero, err
	}
	t, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%q is a %s: %w", title, item.Base().Type, domain.ErrItemNotFound)
	}
	return t, nil
}

// firstAs resolves an ancestor path. Only the first record is meaningful.
func firstAs[T Item](ctx context.Context, l *Library, path string) (T, error) {
	var zero T
	if path == "" {
		return zero, fmt.Errorf("no ancestor path: %w", domain.ErrItemNotFound)
	}
	items, err := l.List(ctx, path, "", AnyWatchState)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%s: %w", path, domain.ErrItemNotFound)
	}
	t, ok := items[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s is a %s: %w", path, items[0].Base().Type, domain.ErrItemNotFound)
	}
	return t, nil
}
