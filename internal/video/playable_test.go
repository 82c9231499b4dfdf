package video

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamIDs(streams []*Stream) []int {
	ids := make([]int, 0, len(streams))
	for _, s := range streams {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestStreamsPartitionInServerOrder(t *testing.T) {
	rec := movieRecord()
	rec.Media = append(rec.Media, plex.Media{
		ID: 11,
		Part: []plex.Part{{
			ID: 8,
			Stream: []plex.Stream{
				{ID: 30, StreamType: 1},
				{ID: 31, StreamType: 2},
			},
		}},
	})
	movie := mustBuild(t, newTestLibrary(newFakeServer()), rec, rec.Key).(*Movie)

	assert.Equal(t, []int{20, 30}, streamIDs(movie.VideoStreams()))
	assert.Equal(t, []int{21, 22, 31}, streamIDs(movie.AudioStreams()))
	assert.Equal(t, []int{23}, streamIDs(movie.SubtitleStreams()))

	for _, s := range movie.AudioStreams() {
		assert.Equal(t, StreamTypeAudio, s.StreamType)
		require.NotNil(t, s.Part())
	}
	assert.Equal(t, 8, movie.AudioStreams()[2].Part().ID)
}

func TestStreamsAreMemoized(t *testing.T) {
	server := newFakeServer()
	movie := mustBuild(t, newTestLibrary(server), movieRecord(), "/library/metadata/1").(*Movie)

	first := movie.AudioStreams()
	require.Len(t, first, 2)

	movie.Media[0].Parts[0].Streams = nil
	assert.Len(t, movie.AudioStreams(), 2)
	assert.Empty(t, movie.SubtitleStreams())

	// hydration drops the cached views
	server.respond(http.MethodGet, "/library/metadata/1", movieRecord())
	require.NoError(t, movie.Reload(context.Background()))
	assert.Len(t, movie.SubtitleStreams(), 1)
}

func TestSelectedStreams(t *testing.T) {
	lib := newTestLibrary(newFakeServer())
	movie := mustBuild(t, lib, movieRecord(), "/library/metadata/1").(*Movie)

	audio := movie.SelectedAudioStream()
	require.NotNil(t, audio)
	assert.Equal(t, 21, audio.ID)
	assert.Nil(t, movie.SelectedSubtitleStream())

	sparse := mustBuild(t, lib, movieRecord(), "/library/sections/1/all").(*Movie)
	assert.Nil(t, sparse.SelectedAudioStream())
}

func TestSelectStream(t *testing.T) {
	server := newFakeServer()
	movie := mustBuild(t, newTestLibrary(server), movieRecord(), "/library/metadata/1").(*Movie)
	french := movie.AudioStreams()[1]

	require.NoError(t, movie.SelectStream(context.Background(), french, false))

	want := []call{{
		Method: http.MethodPut,
		Path:   "/library/parts/7",
		Query:  url.Values{"audioStreamID": {"22"}, "allParts": {"1"}},
	}}
	if diff := cmp.Diff(want, server.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	// local state is left alone until the item is fetched again
	assert.False(t, french.Selected)
	assert.Equal(t, 21, movie.SelectedAudioStream().ID)
}

func TestSelectStreamAsync(t *testing.T) {
	server := newFakeServer()
	movie := mustBuild(t, newTestLibrary(server), movieRecord(), "/library/metadata/1").(*Movie)
	subtitle := movie.SubtitleStreams()[0]

	require.NoError(t, movie.SelectStream(context.Background(), subtitle, true))
	assert.Empty(t, server.calls)
	require.Len(t, server.async, 1)
	assert.Equal(t, "23", server.async[0].Query.Get("subtitleStreamID"))
}

func TestSelectStreamWithoutPart(t *testing.T) {
	movie := mustBuild(t, newTestLibrary(newFakeServer()), movieRecord(), "").(*Movie)
	assert.Error(t, movie.SelectStream(context.Background(), &Stream{ID: 1, StreamType: StreamTypeAudio}, false))
	assert.Error(t, movie.SelectStream(context.Background(), nil, false))
}

func TestSessionOverlay(t *testing.T) {
	rec := movieRecord()
	rec.SessionKey = "12"
	rec.User = &plex.User{ID: "1", Title: "alice"}
	rec.Player = &plex.Player{MachineIdentifier: "tv", State: "playing"}
	rec.TranscodeSession = &plex.TranscodeSession{Key: "/transcode/sessions/x", VideoDecision: "transcode"}

	movie := mustBuild(t, newTestLibrary(newFakeServer()), rec, "/status/sessions").(*Movie)
	assert.Equal(t, "12", movie.SessionKey)
	require.NotNil(t, movie.User)
	assert.Equal(t, "alice", movie.User.Title)
	require.NotNil(t, movie.Player)
	assert.Equal(t, "playing", movie.Player.State)
	assert.True(t, movie.TranscodeSession.IsTranscoding())

	plain := mustBuild(t, newTestLibrary(newFakeServer()), movieRecord(), "").(*Movie)
	assert.Nil(t, plain.User)
	assert.False(t, plain.TranscodeSession.IsTranscoding())
}

func TestMediaVersionSummary(t *testing.T) {
	m := &MediaVersion{Height: 2160, VideoCodec: "hevc", AudioCodec: "eac3", AudioChannels: 6}
	assert.Equal(t, "4K", m.Resolution())
	assert.Contains(t, m.Summary(), "4K")

	assert.Equal(t, "", (&MediaVersion{}).Resolution())
	assert.Equal(t, "360p", (&MediaVersion{Height: 360}).Resolution())
	assert.Equal(t, "480p", (&MediaVersion{Height: 480}).Resolution())
}

func TestStreamString(t *testing.T) {
	assert.Equal(t, "English (AC3 5.1)", (&Stream{DisplayTitle: "English (AC3 5.1)"}).String())
	assert.Equal(t, "French (AAC)", (&Stream{Language: "French", Codec: "aac"}).String())
	assert.Equal(t, "SRT", (&Stream{Codec: "srt"}).String())
}
