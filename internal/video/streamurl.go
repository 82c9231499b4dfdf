package video

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/plexvideo/internal/domain"
)

// DefaultPlatform is sent as X-Plex-Platform when none is given
const DefaultPlatform = "Chrome"

// minVideoBitrate is the lowest bitrate cap (kbps) sent to the transcoder
const minVideoBitrate = 64

type streamOptions struct {
	offset          int
	copyts          int
	protocol        string
	mediaIndex      int
	platform        string
	maxVideoBitrate int
	width, height   int
	hasResolution   bool
}

// StreamOption configures a stream URL
type StreamOption func(o *streamOptions)

// WithOffset starts playback offset seconds in
func WithOffset(offset int) StreamOption {
	return func(o *streamOptions) { o.offset = offset }
}

// WithCopyTS sets the copyts flag (default 1)
func WithCopyTS(copyts int) StreamOption {
	return func(o *streamOptions) { o.copyts = copyts }
}

// WithProtocol selects the streaming protocol (default "hls")
func WithProtocol(protocol string) StreamOption {
	return func(o *streamOptions) { o.protocol = protocol }
}

// WithMediaIndex picks the media version to stream (default 0)
func WithMediaIndex(index int) StreamOption {
	return func(o *streamOptions) { o.mediaIndex = index }
}

// WithPlatform overrides the X-Plex-Platform value
func WithPlatform(platform string) StreamOption {
	return func(o *streamOptions) { o.platform = platform }
}

// WithMaxVideoBitrate caps the video bitrate in kbps. Values below 64 are
// raised to 64; zero means no cap.
func WithMaxVideoBitrate(kbps int) StreamOption {
	return func(o *streamOptions) { o.maxVideoBitrate = kbps }
}

// WithVideoResolution asks the transcoder for width x height
func WithVideoResolution(width, height int) StreamOption {
	return func(o *streamOptions) {
		o.width, o.height = width, height
		o.hasResolution = true
	}
}

func isStreamable(itemType string) bool {
	switch itemType {
	case TypeMovie, TypeEpisode, TypeClip, TypeTrack:
		return true
	default:
		return false
	}
}

// StreamURL builds a transcoded stream URL for any item. Containers
// (shows, seasons) fail with domain.ErrUnsupported.
func StreamURL(item Item, opts ...StreamOption) (string, error) {
	return item.Base().streamURL(opts...)
}

func (v *Video) streamURL(opts ...StreamOption) (string, error) {
	if !isStreamable(v.Type) {
		return "", fmt.Errorf("stream URL for %s: %w", v.Type, domain.ErrUnsupported)
	}

	o := streamOptions{
		copyts:   1,
		protocol: "hls",
		platform: DefaultPlatform,
	}
	for _, opt := range opts {
		opt(&o)
	}

	params := url.Values{}
	setString := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	setString("path", v.Key)
	params.Set("offset", strconv.Itoa(o.offset))
	params.Set("copyts", strconv.Itoa(o.copyts))
	setString("protocol", o.protocol)
	params.Set("mediaIndex", strconv.Itoa(o.mediaIndex))
	params.Set("directStream", "1")
	params.Set("directPlay", "0")
	setString("X-Plex-Platform", o.platform)
	if o.maxVideoBitrate != 0 {
		params.Set("maxVideoBitrate", strconv.Itoa(max(o.maxVideoBitrate, minVideoBitrate)))
	}
	if o.hasResolution {
		params.Set("videoResolution", fmt.Sprintf("%dx%d", o.width, o.height))
	}

	category := "video"
	if v.Type == TypeTrack || v.Type == TypeAlbum {
		category = "audio"
	}

	server, err := v.lib.server.TranscodeServer(v.Type)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("/%s/:/transcode/universal/start.m3u8?%s", category, params.Encode())
	return server.BuildURL(path, true), nil
}
