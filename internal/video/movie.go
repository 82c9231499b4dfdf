package video

import "github.com/mmcdole/plexvideo/internal/mediaserver/plex"

// Movie is a playable feature film
type Movie struct {
	Video
	playable

	// Full records only
	Collections []Tag
	Countries   []Tag
	Directors   []Tag
	Genres      []Tag
	Producers   []Tag
	Roles       []Tag
	Writers     []Tag
}

func (m *Movie) setData(rec plex.Metadata, initPath string) {
	m.Video.setData(rec, initPath)

	m.Collections, m.Countries, m.Directors, m.Genres = nil, nil, nil, nil
	m.Producers, m.Roles, m.Writers = nil, nil, nil
	if m.IsFullObject() {
		m.Collections = tags(rec.Collection)
		m.Countries = tags(rec.Country)
		m.Directors = tags(rec.Director)
		m.Genres = tags(rec.Genre)
		m.Producers = tags(rec.Producer)
		m.Roles = tags(rec.Role)
		m.Writers = tags(rec.Writer)
	}

	m.setPlayable(m.lib.server, rec, m.IsFullObject())
}

// Actors is an alias for Roles
func (m *Movie) Actors() []Tag { return m.Roles }

// IsWatched reports whether the movie has been played at least once
func (m *Movie) IsWatched() bool { return m.leafWatched() }

// StreamURL builds a transcoded HLS URL for the movie
func (m *Movie) StreamURL(opts ...StreamOption) (string, error) {
	return m.streamURL(opts...)
}

// Clip is a trailer or extra. Clips carry no media payload.
type Clip struct {
	Video
}

// IsWatched reports whether the clip has been played at least once
func (c *Clip) IsWatched() bool { return c.leafWatched() }

// StreamURL builds a transcoded HLS URL for the clip
func (c *Clip) StreamURL(opts ...StreamOption) (string, error) {
	return c.streamURL(opts...)
}
