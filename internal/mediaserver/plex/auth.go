package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/plexvideo/internal/domain"
)

// ErrPINExpired indicates the authentication PIN has expired
var ErrPINExpired = errors.New("authentication PIN has expired")

const (
	plexTVBaseURL = "https://plex.tv"
	pinEndpoint   = "/api/v2/pins"

	// LinkURL is where the user enters the PIN
	LinkURL = "https://plex.tv/link"
)

// AuthClient handles Plex PIN authentication against plex.tv
type AuthClient struct {
	baseURL    string
	identity   ClientIdentity
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAuthClient creates a new authentication client
func NewAuthClient(identity ClientIdentity, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}
	if identity.ID == "" {
		identity = DefaultIdentity
	}
	return &AuthClient{
		baseURL:  plexTVBaseURL,
		identity: identity,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

func (a *AuthClient) newRequest(ctx context.Context, method, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", a.identity.ID)
	req.Header.Set("X-Plex-Product", a.identity.Product)
	req.Header.Set("X-Plex-Version", clientVersion)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// GetPIN generates a new authentication PIN
func (a *AuthClient) GetPIN(ctx context.Context) (pin string, id int, err error) {
	data := url.Values{}
	data.Set("strong", "false")
	data.Set("X-Plex-Product", a.identity.Product)
	data.Set("X-Plex-Client-Identifier", a.identity.ID)

	req, err := a.newRequest(ctx, http.MethodPost, a.baseURL+pinEndpoint+"?"+data.Encode())
	if err != nil {
		return "", 0, err
	}

	a.logger.Debug("requesting PIN")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("PIN request failed", "error", err)
		return "", 0, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		a.logger.Error("PIN request error", "status", resp.StatusCode, "body", string(body))
		return "", 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pinResp PINResponse
	if err := json.Unmarshal(body, &pinResp); err != nil {
		return "", 0, fmt.Errorf("failed to parse PIN response: %w", err)
	}

	a.logger.Info("PIN generated", "id", pinResp.ID)
	return pinResp.Code, pinResp.ID, nil
}

// CheckPIN reports whether the PIN was claimed and returns the auth token if so
func (a *AuthClient) CheckPIN(ctx context.Context, pinID int) (token string, claimed bool, err error) {
	req, err := a.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s%s/%d", a.baseURL, pinEndpoint, pinID))
	if err != nil {
		return "", false, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("PIN check failed", "error", err)
		return "", false, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", false, ErrPINExpired
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("PIN check error", "status", resp.StatusCode, "body", string(body))
		return "", false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pinResp PINCheckResponse
	if err := json.Unmarshal(body, &pinResp); err != nil {
		return "", false, fmt.Errorf("failed to parse PIN response: %w", err)
	}

	if pinResp.AuthToken == "" {
		return "", false, nil
	}

	a.logger.Info("PIN claimed")
	return pinResp.AuthToken, true, nil
}

// WaitForPIN polls until the PIN is claimed, backing off up to 5s between checks
func (a *AuthClient) WaitForPIN(ctx context.Context, pinID int, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	interval := 1 * time.Second
	maxInterval := 5 * time.Second

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
			token, claimed, err := a.CheckPIN(ctx, pinID)
			if err != nil {
				if errors.Is(err, ErrPINExpired) {
					return "", err
				}
				a.logger.Warn("PIN check error, retrying", "error", err)
				continue
			}

			if claimed {
				return token, nil
			}

			interval = min(interval*2, maxInterval)
		}
	}

	return "", ErrPINExpired
}
