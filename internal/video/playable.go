package video

import (
	"context"
	"errors"

	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
)

// SessionUser is the account watching an active session
type SessionUser struct {
	ID    string
	Title string
	Thumb string
}

// SessionPlayer is the device playing an active session
type SessionPlayer struct {
	MachineIdentifier string
	Title             string
	Platform          string
	Product           string
	State             string
	Address           string
	Local             bool
}

// TranscodeSession describes the transcoder serving an active session
type TranscodeSession struct {
	Key           string
	Progress      float64
	Speed         float64
	Throttled     bool
	Complete      bool
	Protocol      string
	Container     string
	VideoDecision string
	AudioDecision string
}

// IsTranscoding reports whether video is being transcoded rather than copied
func (t *TranscodeSession) IsTranscoding() bool {
	return t != nil && t.VideoDecision == "transcode"
}

func findUser(rec plex.Metadata) *SessionUser {
	if rec.User == nil {
		return nil
	}
	return &SessionUser{ID: rec.User.ID, Title: rec.User.Title, Thumb: rec.User.Thumb}
}

func findPlayer(rec plex.Metadata) *SessionPlayer {
	if rec.Player == nil {
		return nil
	}
	p := rec.Player
	return &SessionPlayer{
		MachineIdentifier: p.MachineIdentifier,
		Title:             p.Title,
		Platform:          p.Platform,
		Product:           p.Product,
		State:             p.State,
		Address:           p.Address,
		Local:             p.Local,
	}
}

func findTranscodeSession(rec plex.Metadata) *TranscodeSession {
	if rec.TranscodeSession == nil {
		return nil
	}
	t := rec.TranscodeSession
	return &TranscodeSession{
		Key:           t.Key,
		Progress:      t.Progress,
		Speed:         t.Speed,
		Throttled:     t.Throttled,
		Complete:      t.Complete,
		Protocol:      t.Protocol,
		Container:     t.Container,
		VideoDecision: t.VideoDecision,
		AudioDecision: t.AudioDecision,
	}
}

// playable is the media payload and session overlay of movies and episodes
type playable struct {
	// Media is nil on sparse records
	Media []*MediaVersion

	// Set only when the record describes an active playback session
	SessionKey       string
	User             *SessionUser
	Player           *SessionPlayer
	TranscodeSession *TranscodeSession

	streams map[StreamType][]*Stream
}

func (p *playable) setPlayable(server Server, rec plex.Metadata, full bool) {
	p.Media = nil
	if full {
		p.Media = newMediaVersions(server, rec.Media)
	}
	p.streams = nil

	p.SessionKey = rec.SessionKey
	p.User = findUser(rec)
	p.Player = findPlayer(rec)
	p.TranscodeSession = findTranscodeSession(rec)
}

// findStreams flattens MediaVersion → Part → Stream in server order, keeping
// streams of streamType. The result is memoized until the next hydration.
func (p *playable) findStreams(streamType StreamType) []*Stream {
	if cached, ok := p.streams[streamType]; ok {
		return cached
	}
	var found []*Stream
	for _, mv := range p.Media {
		for _, part := range mv.Parts {
			for _, s := range part.Streams {
				if s.StreamType == streamType {
					found = append(found, s)
				}
			}
		}
	}
	if p.streams == nil {
		p.streams = make(map[StreamType][]*Stream, 3)
	}
	p.streams[streamType] = found
	return found
}

// VideoStreams returns every video stream of every part
func (p *playable) VideoStreams() []*Stream { return p.findStreams(StreamTypeVideo) }

// AudioStreams returns every audio stream of every part
func (p *playable) AudioStreams() []*Stream { return p.findStreams(StreamTypeAudio) }

// SubtitleStreams returns every subtitle stream of every part
func (p *playable) SubtitleStreams() []*Stream { return p.findStreams(StreamTypeSubtitle) }

// SelectedAudioStream returns the first selected audio stream, or nil
func (p *playable) SelectedAudioStream() *Stream { return firstSelected(p.AudioStreams()) }

// SelectedSubtitleStream returns the first selected subtitle stream, or nil
func (p *playable) SelectedSubtitleStream() *Stream { return firstSelected(p.SubtitleStreams()) }

func firstSelected(streams []*Stream) *Stream {
	for _, s := range streams {
		if s.Selected {
			return s
		}
	}
	return nil
}

// SelectStream asks the server to select stream on its part. The entity is
// not updated; re-fetch it to observe the new selection.
func (p *playable) SelectStream(ctx context.Context, stream *Stream, async bool) error {
	if stream == nil || stream.Part() == nil {
		return errors.New("stream does not belong to a part")
	}
	return stream.Part().SetSelectedStream(ctx, stream.StreamType, stream.ID, async)
}
