package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthClient(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	a := NewAuthClient(ClientIdentity{ID: "cid", Product: "PlexVideo"}, nil)
	a.baseURL = srv.URL
	return a
}

func TestAuthClientGetPIN(t *testing.T) {
	a := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pinEndpoint, r.URL.Path)
		assert.Equal(t, "cid", r.URL.Query().Get("X-Plex-Client-Identifier"))
		assert.Equal(t, "cid", r.Header.Get("X-Plex-Client-Identifier"))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":99,"code":"ABCD"}`)
	})

	pin, id, err := a.GetPIN(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ABCD", pin)
	assert.Equal(t, 99, id)
}

func TestAuthClientCheckPIN(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantToken   string
		wantClaimed bool
		wantErr     error
	}{
		{"unclaimed", http.StatusOK, `{"id":1,"authToken":""}`, "", false, nil},
		{"claimed", http.StatusOK, `{"id":1,"authToken":"tok"}`, "tok", true, nil},
		{"expired", http.StatusNotFound, ``, "", false, ErrPINExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, pinEndpoint+"/1", r.URL.Path)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			token, claimed, err := a.CheckPIN(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantClaimed, claimed)
		})
	}
}

func TestAuthClientWaitForPINCancelled(t *testing.T) {
	a := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.WaitForPIN(ctx, 1, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
