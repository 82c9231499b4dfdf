package video

import (
	"context"
	"net/http"
	"testing"

	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func episodeRecord(rk, title string, index, viewCount int) plex.Metadata {
	return plex.Metadata{
		RatingKey:      rk,
		Key:            "/library/metadata/" + rk,
		ParentKey:      "/library/metadata/20",
		GrandparentKey: "/library/metadata/5",
		Type:           TypeEpisode,
		Title:          title,
		Index:          index,
		ParentIndex:    1,
		ViewCount:      viewCount,
	}
}

func showRecord() plex.Metadata {
	return plex.Metadata{RatingKey: "5", Key: "/library/metadata/5/children", Type: TypeShow, Title: "Breaking Bad"}
}

func seasonRecord() plex.Metadata {
	return plex.Metadata{
		RatingKey: "20",
		Key:       "/library/metadata/20/children",
		ParentKey: "/library/metadata/5",
		Type:      TypeSeason,
		Title:     "Season 1",
		Index:     1,
	}
}

func TestLibraryFetch(t *testing.T) {
	server := newFakeServer()
	server.respond(http.MethodGet, "/library/metadata/1", movieRecord())
	lib := newTestLibrary(server)

	item, err := lib.Fetch(context.Background(), "1")
	require.NoError(t, err)
	movie, ok := item.(*Movie)
	require.True(t, ok)
	assert.True(t, movie.IsFullObject())
	assert.Equal(t, "/library/metadata/1", movie.InitPath())

	_, err = lib.Fetch(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestLibraryListSkipsUnknownTypes(t *testing.T) {
	server := newFakeServer()
	server.respond(http.MethodGet, "/hubs/mixed",
		movieRecord(),
		plex.Metadata{RatingKey: "2", Type: "artist", Title: "Miles Davis"},
		plex.Metadata{RatingKey: "3", Type: TypeClip, Title: "Trailer"},
	)

	items, err := newTestLibrary(server).List(context.Background(), "/hubs/mixed", "", AnyWatchState)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.IsType(t, &Movie{}, items[0])
	assert.IsType(t, &Clip{}, items[1])
}

func TestShowNavigation(t *testing.T) {
	server := newFakeServer()
	lib := newTestLibrary(server)
	show := mustBuild(t, lib, showRecord(), "").(*Show)

	server.respond(http.MethodGet, "/library/metadata/5/children", seasonRecord())
	server.respond(http.MethodGet, "/library/metadata/5/allLeaves",
		episodeRecord("30", "Pilot", 1, 1),
		episodeRecord("31", "Cat's in the Bag...", 2, 0),
		episodeRecord("32", "...And the Bag's in the River", 3, 0),
	)

	seasons, err := show.Seasons(context.Background())
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, "Season 1", seasons[0].Title)
	assert.False(t, seasons[0].IsFullObject())

	season, err := show.Season(context.Background(), "season 1")
	require.NoError(t, err)
	assert.Equal(t, "20", season.RatingKey)

	all, err := show.Episodes(context.Background(), AnyWatchState)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	watched, err := show.Watched(context.Background())
	require.NoError(t, err)
	require.Len(t, watched, 1)
	assert.Equal(t, "Pilot", watched[0].Title)

	unwatched, err := show.Unwatched(context.Background())
	require.NoError(t, err)
	assert.Len(t, unwatched, 2)

	episode, err := show.Get(context.Background(), "PILOT")
	require.NoError(t, err)
	assert.Equal(t, "30", episode.RatingKey)
}

func TestSeasonNavigation(t *testing.T) {
	server := newFakeServer()
	lib := newTestLibrary(server)
	season := mustBuild(t, lib, seasonRecord(), "").(*Season)

	server.respond(http.MethodGet, "/library/metadata/20/children",
		episodeRecord("30", "Pilot Light", 1, 0),
		episodeRecord("31", "Café Society", 2, 0),
	)
	server.respond(http.MethodGet, "/library/metadata/5", showRecord())

	_, err := season.Episode(context.Background(), "Pilot")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	episode, err := season.Episode(context.Background(), "cafe society")
	require.NoError(t, err)
	assert.Equal(t, "31", episode.RatingKey)

	show, err := season.Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Breaking Bad", show.Title)
	assert.True(t, show.IsFullObject())
}

func TestEpisodeAncestors(t *testing.T) {
	server := newFakeServer()
	lib := newTestLibrary(server)
	episode := mustBuild(t, lib, episodeRecord("30", "Pilot", 1, 0), "").(*Episode)

	server.respond(http.MethodGet, "/library/metadata/20", seasonRecord())
	server.respond(http.MethodGet, "/library/metadata/5", showRecord())

	season, err := episode.Season(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20", season.RatingKey)

	show, err := episode.Show(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5", show.RatingKey)

	orphan := mustBuild(t, lib, plex.Metadata{RatingKey: "99", Type: TypeEpisode}, "").(*Episode)
	_, err = orphan.Show(context.Background())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestTitleMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Pilot", "pilot", true},
		{"Café Society", "cafe society", true},
		{"Pilot", "Pilot Light", false},
		{"Ozymandias", "Granite State", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, titleMatches(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSearchEpisodes(t *testing.T) {
	server := newFakeServer()
	lib := newTestLibrary(server)
	season := mustBuild(t, lib, seasonRecord(), "").(*Season)

	server.respond(http.MethodGet, "/library/metadata/20/children",
		episodeRecord("30", "Pilot", 1, 0),
		episodeRecord("31", "Second Chances", 2, 0),
		episodeRecord("32", "Grilled", 3, 0),
	)

	found, err := season.SearchEpisodes(context.Background(), "secnd")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "31", found[0].RatingKey)

	found, err = season.SearchEpisodes(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, found)
}
