package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultTokenDirName is created under the user's home directory when no token dir is configured
const DefaultTokenDirName = ".lessonflowai"

// TokenStorage handles storing and retrieving OAuth tokens
type TokenStorage struct {
	configDir string
}

// NewTokenStorage creates a token storage rooted at dir, or at ~/.lessonflowai when dir is empty
func NewTokenStorage(dir string) (*TokenStorage, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultTokenDirName)
	}

	expanded, err := ExpandHomeDir(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(expanded, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &TokenStorage{
		configDir: expanded,
	}, nil
}

func (s *TokenStorage) tokenPath(service string) string {
	return filepath.Join(s.configDir, fmt.Sprintf("%s_token.json", service))
}

// SaveToken saves the OAuth token to disk
func (s *TokenStorage) SaveToken(service string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := WriteFileAtomic(s.tokenPath(service), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// LoadToken loads the OAuth token from disk. A missing token is not an error: (nil, nil) is returned.
func (s *TokenStorage) LoadToken(service string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.tokenPath(service))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// OAuthCallbackServer handles the OAuth redirect and hands the authorization code to WaitForCode
type OAuthCallbackServer struct {
	state    string
	codeChan chan string
	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewOAuthCallbackServer creates a callback server that only accepts redirects carrying state
func NewOAuthCallbackServer(state string) *OAuthCallbackServer {
	return &OAuthCallbackServer{
		state:    state,
		codeChan: make(chan string, 1),
	}
}

// Start binds the callback server on the given port; a port of 0 picks a free one
func (s *OAuthCallbackServer) Start(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCallback)
	s.server = &http.Server{Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			LogError("Callback server error: %v", err)
		}
	}()

	return nil
}

// RedirectURL is the URL to register as the OAuth redirect for this server
func (s *OAuthCallbackServer) RedirectURL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

func (s *OAuthCallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.state != "" && r.URL.Query().Get("state") != s.state {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No authorization code received", http.StatusBadRequest)
		return
	}

	select {
	case s.codeChan <- code:
	default:
		// a code was already delivered; ignore browser retries
	}

	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, `<html><head><title>Authorization Successful</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding-top: 4rem;">
<h1>Authorization Successful</h1>
<p>You can now close this window and return to lessonflowai.</p>
</body></html>`); err != nil {
		LogWarning("Failed to write response: %v", err)
	}
}

// WaitForCode blocks until the authorization code arrives or ctx is done
func (s *OAuthCallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop stops the callback server
func (s *OAuthCallbackServer) Stop() error {
	if s.server != nil {
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("failed to stop callback server: %w", err)
		}
		s.wg.Wait()
	}
	return nil
}

// OpenURL opens the specified URL in the default browser. It is a variable so tests can stub it.
var OpenURL = openBrowser

func openBrowser(url string) error {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("cannot open URL %s on this platform", url)
	}
	return err
}
