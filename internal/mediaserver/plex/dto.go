package plex

// MediaContainer is the root container for Plex API responses
type MediaContainer struct {
	Size                int        `json:"size"`
	TotalSize           int        `json:"totalSize,omitempty"`
	Offset              int        `json:"offset,omitempty"`
	Identifier          string     `json:"identifier,omitempty"`
	MachineIdentifier   string     `json:"machineIdentifier,omitempty"`
	Version             string     `json:"version,omitempty"`
	LibrarySectionID    int        `json:"librarySectionID,omitempty"`
	LibrarySectionTitle string     `json:"librarySectionTitle,omitempty"`
	Metadata            []Metadata `json:"Metadata,omitempty"`
}

// Metadata is a single library record (movie, show, season, episode, clip).
// Listing endpoints return a sparse subset of these fields; the detail
// endpoint /library/metadata/{ratingKey} returns the full record.
type Metadata struct {
	RatingKey            string  `json:"ratingKey"`
	Key                  string  `json:"key"`
	ParentRatingKey      string  `json:"parentRatingKey,omitempty"`
	GrandparentRatingKey string  `json:"grandparentRatingKey,omitempty"`
	ParentKey            string  `json:"parentKey,omitempty"`
	GrandparentKey       string  `json:"grandparentKey,omitempty"`
	GUID                 string  `json:"guid,omitempty"`
	Type                 string  `json:"type"`
	Title                string  `json:"title"`
	TitleSort            string  `json:"titleSort,omitempty"`
	ParentTitle          string  `json:"parentTitle,omitempty"`
	GrandparentTitle     string  `json:"grandparentTitle,omitempty"`
	ContentRating        string  `json:"contentRating,omitempty"`
	Summary              string  `json:"summary,omitempty"`
	Studio               string  `json:"studio,omitempty"`
	Index                int     `json:"index,omitempty"`
	ParentIndex          int     `json:"parentIndex,omitempty"`
	Year                 int     `json:"year,omitempty"`
	Rating               float64 `json:"rating,omitempty"`
	AudienceRating       float64 `json:"audienceRating,omitempty"`
	Thumb                string  `json:"thumb,omitempty"`
	Art                  string  `json:"art,omitempty"`
	ParentThumb          string  `json:"parentThumb,omitempty"`
	GrandparentThumb     string  `json:"grandparentThumb,omitempty"`
	Duration             int64   `json:"duration,omitempty"`
	ViewOffset           int64   `json:"viewOffset,omitempty"`
	ViewCount            int     `json:"viewCount,omitempty"`
	LastViewedAt         int64   `json:"lastViewedAt,omitempty"`
	LeafCount            int     `json:"leafCount,omitempty"`
	ViewedLeafCount      int     `json:"viewedLeafCount,omitempty"`
	ChildCount           int     `json:"childCount,omitempty"`
	AddedAt              int64   `json:"addedAt,omitempty"`
	UpdatedAt            int64   `json:"updatedAt,omitempty"`
	LibrarySectionID     int     `json:"librarySectionID,omitempty"`

	Media []Media `json:"Media,omitempty"`

	// Tag groups, present on full records only
	Collection []Tag `json:"Collection,omitempty"`
	Country    []Tag `json:"Country,omitempty"`
	Director   []Tag `json:"Director,omitempty"`
	Genre      []Tag `json:"Genre,omitempty"`
	Producer   []Tag `json:"Producer,omitempty"`
	Role       []Tag `json:"Role,omitempty"`
	Writer     []Tag `json:"Writer,omitempty"`

	// Active session overlay (/status/sessions)
	SessionKey       string            `json:"sessionKey,omitempty"`
	User             *User             `json:"User,omitempty"`
	Player           *Player           `json:"Player,omitempty"`
	TranscodeSession *TranscodeSession `json:"TranscodeSession,omitempty"`
}

// Tag is a metadata tag (genre, director, role, ...)
type Tag struct {
	ID     int    `json:"id,omitempty"`
	Filter string `json:"filter,omitempty"`
	Tag    string `json:"tag"`
	Role   string `json:"role,omitempty"` // character name for Role tags
	Thumb  string `json:"thumb,omitempty"`
}

// Media is one version (encoding) of a title
type Media struct {
	ID              int    `json:"id"`
	Duration        int64  `json:"duration,omitempty"`
	Bitrate         int    `json:"bitrate,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	AudioChannels   int    `json:"audioChannels,omitempty"`
	AudioCodec      string `json:"audioCodec,omitempty"`
	VideoCodec      string `json:"videoCodec,omitempty"`
	VideoResolution string `json:"videoResolution,omitempty"`
	Container       string `json:"container,omitempty"`
	VideoFrameRate  string `json:"videoFrameRate,omitempty"`
	Part            []Part `json:"Part,omitempty"`
}

// Part represents a media file part
type Part struct {
	ID        int      `json:"id"`
	Key       string   `json:"key"`
	Duration  int64    `json:"duration,omitempty"`
	File      string   `json:"file,omitempty"`
	Size      int64    `json:"size,omitempty"`
	Container string   `json:"container,omitempty"`
	Stream    []Stream `json:"Stream,omitempty"`
}

// Stream is one elementary track inside a part
type Stream struct {
	ID           int    `json:"id"`
	StreamType   int    `json:"streamType"` // 1=video, 2=audio, 3=subtitle
	Index        int    `json:"index,omitempty"`
	Codec        string `json:"codec,omitempty"`
	Language     string `json:"language,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
	Title        string `json:"title,omitempty"`
	DisplayTitle string `json:"displayTitle,omitempty"`
	Selected     bool   `json:"selected,omitempty"`
	Default      bool   `json:"default,omitempty"`
	Channels     int    `json:"channels,omitempty"`
	Bitrate      int    `json:"bitrate,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// User is the account watching an active session
type User struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Thumb string `json:"thumb,omitempty"`
}

// Player is the device playing an active session
type Player struct {
	Address           string `json:"address,omitempty"`
	MachineIdentifier string `json:"machineIdentifier"`
	Platform          string `json:"platform,omitempty"`
	Product           string `json:"product,omitempty"`
	State             string `json:"state,omitempty"` // playing, paused, buffering
	Title             string `json:"title,omitempty"`
	Local             bool   `json:"local,omitempty"`
}

// TranscodeSession describes the transcoder attached to an active session
type TranscodeSession struct {
	Key           string  `json:"key"`
	Throttled     bool    `json:"throttled,omitempty"`
	Complete      bool    `json:"complete,omitempty"`
	Progress      float64 `json:"progress,omitempty"`
	Speed         float64 `json:"speed,omitempty"`
	Protocol      string  `json:"protocol,omitempty"`
	Container     string  `json:"container,omitempty"`
	VideoCodec    string  `json:"videoCodec,omitempty"`
	AudioCodec    string  `json:"audioCodec,omitempty"`
	VideoDecision string  `json:"videoDecision,omitempty"` // transcode, copy, directplay
	AudioDecision string  `json:"audioDecision,omitempty"`
}

// APIResponse wraps the MediaContainer for JSON unmarshaling
type APIResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// PINResponse represents the response from PIN generation
type PINResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	Product   string `json:"product"`
	Trusted   bool   `json:"trusted"`
	ClientID  string `json:"clientIdentifier"`
	AuthToken string `json:"authToken,omitempty"`
	ExpiresAt string `json:"expiresAt"`
}

// PINCheckResponse represents the response from PIN check
type PINCheckResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	AuthToken string `json:"authToken"`
	ExpiresAt string `json:"expiresAt"`
}
