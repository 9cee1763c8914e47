package utils

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStorage_RoundTrip(t *testing.T) {
	storage, err := NewTokenStorage(t.TempDir())
	require.NoError(t, err)

	token, err := storage.LoadToken("youtube")
	require.NoError(t, err)
	assert.Nil(t, token, "missing token is not an error")

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, storage.SaveToken("youtube", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	token, err = storage.LoadToken("youtube")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))
}

func TestOAuthCallbackServer(t *testing.T) {
	server := NewOAuthCallbackServer("state-123")
	require.NoError(t, server.Start(0))
	defer func() {
		assert.NoError(t, server.Stop())
	}()

	base := server.RedirectURL()
	require.NotEmpty(t, base)

	resp, err := http.Get(base + "/?state=wrong&code=abc")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(base + "/?state=state-123")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(base + "/?state=state-123&code=abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code, err := server.WaitForCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
}

func TestOAuthCallbackServer_WaitCancelled(t *testing.T) {
	server := NewOAuthCallbackServer("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := server.WaitForCode(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
