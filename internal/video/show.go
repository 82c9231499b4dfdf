package video

import (
	"context"

	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// Show is a TV series
type Show struct {
	Video

	// Full records only
	Genres []Tag
	Roles  []Tag
}

func (s *Show) setData(rec plex.Metadata, initPath string) {
	s.Video.setData(rec, initPath)

	s.Genres, s.Roles = nil, nil
	if s.IsFullObject() {
		s.Genres = tags(rec.Genre)
		s.Roles = tags(rec.Role)
	}
}

// IsWatched reports whether every episode has been watched
func (s *Show) IsWatched() bool { return s.containerWatched() }

// Refresh asks the server to rescan the show's metadata node
func (s *Show) Refresh(ctx context.Context) error {
	return s.refreshPath(ctx, metadataPath(s.RatingKey)+"/refresh")
}

// Seasons lists the show's seasons
func (s *Show) Seasons(ctx context.Context) ([]*Season, error) {
	return listAs[*Season](ctx, s.lib, childrenPath(s.RatingKey), TypeSeason, AnyWatchState)
}

// Season finds a season by title
func (s *Show) Season(ctx context.Context, title string) (*Season, error) {
	return findAs[*Season](ctx, s.lib, childrenPath(s.RatingKey), title)
}

// Episodes lists every episode of every season
func (s *Show) Episodes(ctx context.Context, filter WatchFilter) ([]*Episode, error) {
	return listAs[*Episode](ctx, s.lib, allLeavesPath(s.RatingKey), "", filter)
}

// Episode finds an episode by title across all seasons
func (s *Show) Episode(ctx context.Context, title string) (*Episode, error) {
	return findAs[*Episode](ctx, s.lib, allLeavesPath(s.RatingKey), title)
}

// Get is shorthand for Episode
func (s *Show) Get(ctx context.Context, title string) (*Episode, error) {
	return s.Episode(ctx, title)
}

// Watched lists watched episodes
func (s *Show) Watched(ctx context.Context) ([]*Episode, error) {
	return s.Episodes(ctx, OnlyWatched)
}

// Unwatched lists unwatched episodes
func (s *Show) Unwatched(ctx context.Context) ([]*Episode, error) {
	return s.Episodes(ctx, OnlyUnwatched)
}

// SearchEpisodes ranks the show's episodes by fuzzy title match, best first
func (s *Show) SearchEpisodes(ctx context.Context, query string) ([]*Episode, error) {
	episodes, err := s.Episodes(ctx, AnyWatchState)
	if err != nil {
		return nil, err
	}
	return rankEpisodes(query, episodes), nil
}

// Season is one season of a show
type Season struct {
	Video
}

// IsWatched reports whether every episode has been watched
func (s *Season) IsWatched() bool { return s.containerWatched() }

// Episodes lists the season's episodes
func (s *Season) Episodes(ctx context.Context, filter WatchFilter) ([]*Episode, error) {
	return listAs[*Episode](ctx, s.lib, childrenPath(s.RatingKey), "", filter)
}

// Episode finds an episode by title
func (s *Season) Episode(ctx context.Context, title string) (*Episode, error) {
	return findAs[*Episode](ctx, s.lib, childrenPath(s.RatingKey), title)
}

// Get is shorthand for Episode
func (s *Season) Get(ctx context.Context, title string) (*Episode, error) {
	return s.Episode(ctx, title)
}

// Show fetches the show the season belongs to
func (s *Season) Show(ctx context.Context) (*Show, error) {
	return firstAs[*Show](ctx, s.lib, s.ParentKey)
}

// Watched lists watched episodes
func (s *Season) Watched(ctx context.Context) ([]*Episode, error) {
	return s.Episodes(ctx, OnlyWatched)
}

// Unwatched lists unwatched episodes
func (s *Season) Unwatched(ctx context.Context) ([]*Episode, error) {
	return s.Episodes(ctx, OnlyUnwatched)
}

// SearchEpisodes ranks the season's episodes by fuzzy title match, best first
func (s *Season) SearchEpisodes(ctx context.Context, query string) ([]*Episode, error) {
	episodes, err := s.Episodes(ctx, AnyWatchState)
	if err != nil {
		return nil, err
	}
	return rankEpisodes(query, episodes), nil
}
