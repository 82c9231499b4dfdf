package video

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// StreamType distinguishes elementary streams. Values match the Plex wire format.
type StreamType int

const (
	StreamTypeVideo    StreamType = 1
	StreamTypeAudio    StreamType = 2
	StreamTypeSubtitle StreamType = 3
)

func (t StreamType) String() string {
	switch t {
	case StreamTypeVideo:
		return "video"
	case StreamTypeAudio:
		return "audio"
	case StreamTypeSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// MediaVersion is one available encoding of a title
type MediaVersion struct {
	ID              int
	Duration        time.Duration
	Bitrate         int // kbps
	Width           int
	Height          int
	VideoCodec      string
	AudioCodec      string
	AudioChannels   int
	Container       string
	VideoResolution string
	Parts           []*Part
}

// Part is one file of a MediaVersion
type Part struct {
	ID        int
	Key       string
	File      string
	Size      int64
	Duration  time.Duration
	Container string
	Streams   []*Stream

	server Server
}

// Stream is one elementary track inside a Part
type Stream struct {
	ID           int
	StreamType   StreamType
	Index        int
	Codec        string
	Language     string
	LanguageCode string
	Title        string
	DisplayTitle string
	Selected     bool
	Default      bool
	Channels     int
	Bitrate      int
	Width        int
	Height       int

	part *Part
}

// Part returns the part that owns the stream
func (s *Stream) Part() *Part { return s.part }

func (s *Stream) String() string {
	if s.DisplayTitle != "" {
		return s.DisplayTitle
	}
	if s.Language != "" {
		return fmt.Sprintf("%s (%s)", s.Language, strings.ToUpper(s.Codec))
	}
	return strings.ToUpper(s.Codec)
}

func newMediaVersions(server Server, media []plex.Media) []*MediaVersion {
	versions := make([]*MediaVersion, 0, len(media))
	for _, m := range media {
		mv := &MediaVersion{
			ID:              m.ID,
			Duration:        time.Duration(m.Duration) * time.Millisecond,
			Bitrate:         m.Bitrate,
			Width:           m.Width,
			Height:          m.Height,
			VideoCodec:      m.VideoCodec,
			AudioCodec:      m.AudioCodec,
			AudioChannels:   m.AudioChannels,
			Container:       m.Container,
			VideoResolution: m.VideoResolution,
			Parts:           make([]*Part, 0, len(m.Part)),
		}
		for _, p := range m.Part {
			mv.Parts = append(mv.Parts, newPart(server, p))
		}
		versions = append(versions, mv)
	}
	return versions
}

func newPart(server Server, p plex.Part) *Part {
	part := &Part{
		ID:        p.ID,
		Key:       p.Key,
		File:      p.File,
		Size:      p.Size,
		Duration:  time.Duration(p.Duration) * time.Millisecond,
		Container: p.Container,
		Streams:   make([]*Stream, 0, len(p.Stream)),
		server:    server,
	}
	for _, s := range p.Stream {
		part.Streams = append(part.Streams, &Stream{
			ID:           s.ID,
			StreamType:   StreamType(s.StreamType),
			Index:        s.Index,
			Codec:        s.Codec,
			Language:     s.Language,
			LanguageCode: s.LanguageCode,
			Title:        s.Title,
			DisplayTitle: s.DisplayTitle,
			Selected:     s.Selected,
			Default:      s.Default,
			Channels:     s.Channels,
			Bitrate:      s.Bitrate,
			Width:        s.Width,
			Height:       s.Height,
			part:         part,
		})
	}
	return part
}

// SetSelectedStream asks the server to make streamID the selected stream of
// its type for this part. With async the request is sent in the background.
// The local Selected flags are left untouched; re-fetch the item to see the change.
func (p *Part) SetSelectedStream(ctx context.Context, streamType StreamType, streamID int, async bool) error {
	switch streamType {
	case StreamTypeVideo, StreamTypeAudio, StreamTypeSubtitle:
	default:
		return fmt.Errorf("select stream type %d: %w", streamType, domain.ErrUnsupported)
	}
	if p.server == nil {
		return fmt.Errorf("part %d has no server", p.ID)
	}

	path := fmt.Sprintf("/library/parts/%d", p.ID)
	query := url.Values{
		streamType.String() + "StreamID": {strconv.Itoa(streamID)},
		"allParts":                       {"1"},
	}

	if async {
		p.server.QueryAsync(ctx, http.MethodPut, path, query)
		return nil
	}
	if _, err := p.server.Query(ctx, http.MethodPut, path, query); err != nil {
		return fmt.Errorf("select %s stream %d: %w", streamType, streamID, err)
	}
	return nil
}

// Resolution returns a human-readable resolution based on video height
func (m *MediaVersion) Resolution() string {
	switch {
	case m.Height >= 2160:
		return "4K"
	case m.Height >= 1080:
		return "1080p"
	case m.Height >= 720:
		return "720p"
	case m.Height >= 480:
		return "480p"
	case m.Height > 0:
		return fmt.Sprintf("%dp", m.Height)
	default:
		return ""
	}
}

// Summary describes the version in one line, e.g. "1080p HEVC AAC 5.1 mkv"
func (m *MediaVersion) Summary() string {
	fields := []string{
		m.Resolution(),
		normalizeCodec(m.VideoCodec),
		normalizeAudioCodec(m.AudioCodec),
		channelLayout(m.AudioChannels),
		normalizeContainer(m.Container),
	}
	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// normalizeContainer cleans up the container format string
func normalizeContainer(container string) string {
	if container == "" {
		return ""
	}
	// Plex may return comma-separated list (e.g. "mov,mp4,m4a,3gp,3g2,mj2"); take first
	if i := strings.Index(container, ","); i >= 0 {
		container = container[:i]
	}
	return strings.ToLower(container)
}

// normalizeCodec converts video codec names to display format
func normalizeCodec(codec string) string {
	switch strings.ToLower(codec) {
	case "hevc", "h265":
		return "HEVC"
	case "h264", "avc":
		return "H.264"
	case "mpeg4":
		return "MPEG4"
	case "vc1":
		return "VC-1"
	case "vp9":
		return "VP9"
	case "av1":
		return "AV1"
	default:
		return strings.ToUpper(codec)
	}
}

// normalizeAudioCodec converts audio codec names to display format
func normalizeAudioCodec(codec string) string {
	switch strings.ToLower(codec) {
	case "aac":
		return "AAC"
	case "ac3":
		return "AC3"
	case "eac3":
		return "EAC3"
	case "dca", "dts":
		return "DTS"
	case "truehd":
		return "TrueHD"
	case "flac":
		return "FLAC"
	case "opus":
		return "Opus"
	default:
		return strings.ToUpper(codec)
	}
}

func channelLayout(channels int) string {
	switch channels {
	case 8:
		return "7.1"
	case 6:
		return "5.1"
	case 2:
		return "Stereo"
	case 1:
		return "Mono"
	default:
		return ""
	}
}
