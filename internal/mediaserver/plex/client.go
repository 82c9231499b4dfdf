package plex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/plexvideo/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "PlexVideo/1.0"
	clientVersion  = "1.0"
)

// ClientIdentity is sent with every request in the X-Plex-* headers
type ClientIdentity struct {
	ID       string // X-Plex-Client-Identifier
	Product  string
	Platform string
}

// DefaultIdentity is used when no identity is configured
var DefaultIdentity = ClientIdentity{
	ID:       "plexvideo-client",
	Product:  "PlexVideo",
	Platform: "Chrome",
}

// URLBuilder resolves a server-relative path into an absolute URL
type URLBuilder interface {
	BuildURL(pathAndQuery string, includeToken bool) string
}

// Endpoint is a server base URL plus the token used to authorize URLs built against it
type Endpoint struct {
	baseURL string
	token   string
}

// NewEndpoint creates an endpoint for baseURL
func NewEndpoint(baseURL, token string) *Endpoint {
	return &Endpoint{baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// BuildURL joins pathAndQuery onto the endpoint base. With includeToken the
// X-Plex-Token parameter is appended so the URL can be opened directly by a player.
func (e *Endpoint) BuildURL(pathAndQuery string, includeToken bool) string {
	u := e.baseURL + pathAndQuery
	if !includeToken || e.token == "" {
		return u
	}
	sep := "?"
	if strings.Contains(pathAndQuery, "?") {
		sep = "&"
	}
	return u + sep + "X-Plex-Token=" + url.QueryEscape(e.token)
}

// Option configures a Client
type Option func(c *Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithIdentity sets the X-Plex-* client identity
func WithIdentity(id ClientIdentity) Option {
	return func(c *Client) {
		if id.ID != "" {
			c.identity.ID = id.ID
		}
		if id.Product != "" {
			c.identity.Product = id.Product
		}
		if id.Platform != "" {
			c.identity.Platform = id.Platform
		}
	}
}

// WithTranscodeURL routes stream URLs to a dedicated transcoding server
func WithTranscodeURL(transcodeURL string) Option {
	return func(c *Client) {
		c.transcodeURL = strings.TrimRight(transcodeURL, "/")
	}
}

// Client is the authenticated transport to one Plex Media Server
type Client struct {
	baseURL           string
	token             string
	transcodeURL      string
	machineIdentifier string // fetched from /identity on demand
	identity          ClientIdentity
	httpClient        *http.Client
	logger            *slog.Logger
}

// NewClient creates a new Plex API client
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		identity: DefaultIdentity,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string { return c.baseURL }

// MachineIdentifier returns the identifier fetched by FetchIdentity
func (c *Client) MachineIdentifier() string { return c.machineIdentifier }

// FetchIdentity fetches and stores the server's machineIdentifier
func (c *Client) FetchIdentity(ctx context.Context) (*MediaContainer, error) {
	container, err := c.Query(ctx, http.MethodGet, "/identity", nil)
	if err != nil {
		return nil, err
	}
	c.machineIdentifier = container.MachineIdentifier
	return container, nil
}

// setPlexHeaders adds the headers every Plex request carries
func (c *Client) setPlexHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.identity.ID)
	req.Header.Set("X-Plex-Product", c.identity.Product)
	req.Header.Set("X-Plex-Platform", c.identity.Platform)
	req.Header.Set("X-Plex-Version", clientVersion)
	req.Header.Set("User-Agent", userAgent)
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		reqURL = reqURL + sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setPlexHeaders(req)

	c.logger.Debug("plex request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("plex request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrItemNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("plex request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// parseResponse parses a JSON response into a MediaContainer.
// Mutating endpoints (scrobble, refresh, analyze) answer with an empty body.
func (c *Client) parseResponse(body []byte) (*MediaContainer, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &MediaContainer{}, nil
	}
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp.MediaContainer, nil
}

// Query issues a request relative to the server base URL and decodes the response
func (c *Client) Query(ctx context.Context, method, path string, query url.Values) (*MediaContainer, error) {
	if method == "" {
		method = http.MethodGet
	}
	body, err := c.doRequest(ctx, method, path, query)
	if err != nil {
		return nil, err
	}
	return c.parseResponse(body)
}

// QueryAsync sends the request in the background. Failures are logged, not returned.
func (c *Client) QueryAsync(ctx context.Context, method, path string, query url.Values) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
		if _, err := c.Query(ctx, method, path, query); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("async plex request failed", "method", method, "path", path, "error", err)
		}
	}()
}

// BuildURL resolves a path against the server base URL
func (c *Client) BuildURL(pathAndQuery string, includeToken bool) string {
	return NewEndpoint(c.baseURL, c.token).BuildURL(pathAndQuery, includeToken)
}

// TranscodeServer returns the endpoint that serves transcoded streams for
// itemType. This is the configured transcode URL when set, otherwise the
// server itself.
func (c *Client) TranscodeServer(itemType string) (URLBuilder, error) {
	base := c.baseURL
	if c.transcodeURL != "" {
		base = c.transcodeURL
	}
	if base == "" {
		return nil, fmt.Errorf("no transcode server available for %s", itemType)
	}
	if c.token == "" {
		return nil, fmt.Errorf("transcode server for %s: %w", itemType, domain.ErrAuthFailed)
	}
	return NewEndpoint(base, c.token), nil
}
