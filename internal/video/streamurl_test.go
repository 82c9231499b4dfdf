package video

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseStreamURL(t *testing.T, raw string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, u.Query()
}

func TestStreamURLDefaults(t *testing.T) {
	movie := mustBuild(t, newTestLibrary(newFakeServer()), movieRecord(), "").(*Movie)

	raw, err := movie.StreamURL()
	require.NoError(t, err)

	u, q := parseStreamURL(t, raw)
	assert.Equal(t, "plex:32400", u.Host)
	assert.Equal(t, "/video/:/transcode/universal/start.m3u8", u.Path)

	want := url.Values{
		"path":            {"/library/metadata/1"},
		"offset":          {"0"},
		"copyts":          {"1"},
		"protocol":        {"hls"},
		"mediaIndex":      {"0"},
		"directStream":    {"1"},
		"directPlay":      {"0"},
		"X-Plex-Platform": {"Chrome"},
		"X-Plex-Token":    {"tok"},
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamURLOptions(t *testing.T) {
	lib := newTestLibrary(newFakeServer())
	episode := mustBuild(t, lib, plex.Metadata{
		RatingKey: "30",
		Key:       "/library/metadata/30",
		Type:      TypeEpisode,
	}, "").(*Episode)

	raw, err := episode.StreamURL(
		WithOffset(90),
		WithCopyTS(0),
		WithProtocol("dash"),
		WithMediaIndex(1),
		WithPlatform("Firefox"),
		WithMaxVideoBitrate(5000),
		WithVideoResolution(1920, 1080),
	)
	require.NoError(t, err)

	_, q := parseStreamURL(t, raw)
	assert.Equal(t, "90", q.Get("offset"))
	assert.Equal(t, "0", q.Get("copyts"))
	assert.Equal(t, "dash", q.Get("protocol"))
	assert.Equal(t, "1", q.Get("mediaIndex"))
	assert.Equal(t, "Firefox", q.Get("X-Plex-Platform"))
	assert.Equal(t, "5000", q.Get("maxVideoBitrate"))
	assert.Equal(t, "1920x1080", q.Get("videoResolution"))
}

func TestStreamURLBitrateFloor(t *testing.T) {
	movie := mustBuild(t, newTestLibrary(newFakeServer()), movieRecord(), "").(*Movie)

	tests := []struct {
		kbps    int
		want    string
		present bool
	}{
		{0, "", false},
		{10, "64", true},
		{64, "64", true},
		{5000, "5000", true},
	}
	for _, tt := range tests {
		raw, err := movie.StreamURL(WithMaxVideoBitrate(tt.kbps))
		require.NoError(t, err)
		_, q := parseStreamURL(t, raw)
		assert.Equal(t, tt.present, q.Has("maxVideoBitrate"), "kbps=%d", tt.kbps)
		assert.Equal(t, tt.want, q.Get("maxVideoBitrate"), "kbps=%d", tt.kbps)
	}
}

func TestStreamURLDropsEmptyStrings(t *testing.T) {
	movie := mustBuild(t, newTestLibrary(newFakeServer()), movieRecord(), "").(*Movie)

	raw, err := movie.StreamURL(WithProtocol(""), WithPlatform(""))
	require.NoError(t, err)
	_, q := parseStreamURL(t, raw)
	assert.False(t, q.Has("protocol"))
	assert.False(t, q.Has("X-Plex-Platform"))
	assert.False(t, q.Has("videoResolution"))
}

func TestStreamURLUnsupportedForContainers(t *testing.T) {
	lib := newTestLibrary(newFakeServer())
	for _, typ := range []string{TypeShow, TypeSeason} {
		item := mustBuild(t, lib, plex.Metadata{RatingKey: "5", Key: "/library/metadata/5/children", Type: typ}, "")
		_, err := StreamURL(item)
		assert.ErrorIs(t, err, domain.ErrUnsupported, typ)
	}

	clip := mustBuild(t, lib, plex.Metadata{RatingKey: "8", Key: "/library/metadata/8", Type: TypeClip}, "")
	_, err := StreamURL(clip)
	assert.NoError(t, err)
}
