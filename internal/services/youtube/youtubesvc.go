// Package youtube publishes rendered lesson videos to a YouTube channel
package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"bitbucket.org/creachadair/stringset"
	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Required OAuth scopes for YouTube API
var requiredScopes = []string{
	youtube.YoutubeUploadScope,
	youtube.YoutubeForceSslScope,
}

// tokenName is the file prefix used in token storage
const tokenName = "youtube"

// YouTube limits
const (
	maxTagLength = 30
	maxTags      = 30
)

// ErrNotAuthorized is returned when no stored or configured YouTube token is available
var ErrNotAuthorized = errors.New("no YouTube authorization found: run `lessonflowai auth` or set YOUTUBE_REFRESH_TOKEN")

// Publisher uploads videos and their thumbnails. The API client is resolved on the first
// upload, so an authorization problem fails that upload and not the whole run.
type Publisher struct {
	mu            sync.Mutex
	api           API
	dial          func(ctx context.Context) (API, error)
	privacyStatus string
	categoryID    string
}

var _ production.Publisher = (*Publisher)(nil)

// NewPublisher creates a Publisher on top of api
func NewPublisher(api API, cfg config.YouTubeConfig) *Publisher {
	return &Publisher{api: api, privacyStatus: cfg.PrivacyStatus, categoryID: cfg.CategoryID}
}

// NewChannelPublisher creates a Publisher that authenticates against YouTube when the first
// video is published. It never starts the interactive browser flow.
func NewChannelPublisher(cfg config.YouTubeConfig) *Publisher {
	return &Publisher{
		dial: func(ctx context.Context) (API, error) {
			return connect(ctx, cfg)
		},
		privacyStatus: cfg.PrivacyStatus,
		categoryID:    cfg.CategoryID,
	}
}

// client returns the API, connecting on first use. A failed connection is retried on the
// next call.
func (p *Publisher) client(ctx context.Context) (API, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.api != nil {
		return p.api, nil
	}
	if p.dial == nil {
		return nil, errors.New("youtube publisher has no API client")
	}

	api, err := p.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("youtube authentication failed: %w", err)
	}
	p.api = api
	return api, nil
}

func connect(ctx context.Context, cfg config.YouTubeConfig) (API, error) {
	oauthCfg, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	storage, err := utils.NewTokenStorage(cfg.TokenDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	token, err := resolveToken(cfg, storage)
	if err != nil {
		return nil, err
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &serviceAPI{service: service}, nil
}

// OAuthConfig builds the OAuth client from the client secrets file, or from the client id
// and secret found in the environment. A file without an installed or web client falls back
// to the client id and secret when both are set.
func OAuthConfig(cfg config.YouTubeConfig) (*oauth2.Config, error) {
	hasClient := cfg.ClientID != "" && cfg.ClientSecret != ""

	if cfg.Credentials != "" {
		credentials, err := os.ReadFile(cfg.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to read client secrets file: %w", err)
		}
		oauthCfg, err := google.ConfigFromJSON(credentials, requiredScopes...)
		if err == nil {
			return oauthCfg, nil
		}
		if !hasClient {
			return nil, fmt.Errorf("failed to create OAuth config from %s: %w", cfg.Credentials, err)
		}
		utils.LogWarning("%s is not an OAuth client secrets file (%v), using YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET", cfg.Credentials, err)
	}
	if !hasClient {
		return nil, &utils.ValidationError{Field: "youtube.credentials", Message: "set a client secrets file or YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET"}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       requiredScopes,
	}, nil
}

// resolveToken tries the stored token, then the refresh token from the environment
func resolveToken(cfg config.YouTubeConfig, storage *utils.TokenStorage) (*oauth2.Token, error) {
	token, err := storage.LoadToken(tokenName)
	if err != nil {
		utils.LogWarning("Ignoring stored YouTube token: %v", err)
	}
	if token != nil && (token.Valid() || token.RefreshToken != "") {
		utils.LogVerbose("Using existing authorization token")
		return token, nil
	}

	if cfg.RefreshToken != "" {
		utils.LogVerbose("Using YouTube refresh token from environment")
		return &oauth2.Token{RefreshToken: cfg.RefreshToken}, nil
	}

	return nil, ErrNotAuthorized
}

// Authorize runs the local-callback OAuth flow and stores the resulting token
func Authorize(ctx context.Context, oauthCfg *oauth2.Config, storage *utils.TokenStorage, port int) (*oauth2.Token, error) {
	state := uuid.NewString()
	callbackServer := utils.NewOAuthCallbackServer(state)
	if err := callbackServer.Start(port); err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		if err := callbackServer.Stop(); err != nil {
			utils.LogWarning("Failed to stop callback server: %v", err)
		}
	}()

	flowCfg := *oauthCfg
	flowCfg.RedirectURL = callbackServer.RedirectURL()
	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if err := utils.OpenURL(authURL); err != nil {
		utils.LogWarning("Could not open a browser: %v", err)
	}
	utils.LogInfo("Authorize this app by visiting:\n%s", authURL)

	code, err := callbackServer.WaitForCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorization not completed: %w", err)
	}

	token, err := flowCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := storage.SaveToken(tokenName, token); err != nil {
		utils.LogWarning("Failed to save token: %v", err)
	}
	return token, nil
}

// Publish uploads one video and returns its id. A thumbnail failure is logged and does not fail the upload.
func (p *Publisher) Publish(ctx context.Context, upload production.Upload) (string, error) {
	file, err := os.Open(upload.VideoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			utils.LogWarning("Failed to close video file: %v", err)
		}
	}()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       upload.Title,
			Description: upload.Description,
			CategoryId:  p.categoryID,
			Tags:        processTags(upload.Tags),
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           p.privacyStatus,
			SelfDeclaredMadeForKids: false,
			// false is the zero value and would otherwise be omitted from the request
			ForceSendFields: []string{"SelfDeclaredMadeForKids"},
		},
	}

	api, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	utils.LogInfo("Uploading %s", upload.Title)
	response, err := api.InsertVideo(ctx, video, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}
	if response == nil || response.Id == "" {
		return "", errors.New("upload returned no video id")
	}
	utils.LogSuccess("Successfully uploaded video: %s", response.Id)

	if upload.ThumbnailPath != "" {
		setThumbnail(ctx, api, response.Id, upload.ThumbnailPath)
	}
	return response.Id, nil
}

func setThumbnail(ctx context.Context, api API, videoID, path string) {
	thumb, err := os.Open(path)
	if err != nil {
		utils.LogWarning("Failed to open thumbnail: %v", err)
		return
	}
	defer func() {
		_ = thumb.Close()
	}()

	if err := api.SetThumbnail(ctx, videoID, thumb); err != nil {
		utils.LogWarning("Failed to set thumbnail for %s: %v", videoID, err)
		return
	}
	utils.LogVerbose("Thumbnail set for %s", videoID)
}

// cleanTag folds diacritics, drops a leading '#' and converts to lowercase
func cleanTag(tag string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, tag)
	if err != nil {
		folded = tag
	}
	folded = strings.TrimSpace(folded)
	folded = strings.TrimLeft(folded, "#")
	return strings.ToLower(strings.TrimSpace(folded))
}

// processTags cleans tags, ensuring YouTube compatibility
func processTags(tags []string) []string {
	seen := stringset.New()
	var cleaned []string
	for _, tag := range tags {
		c := cleanTag(tag)
		if c == "" || utf8.RuneCountInString(c) > maxTagLength || seen.Contains(c) {
			continue
		}
		seen.Add(c)
		cleaned = append(cleaned, c)
		if len(cleaned) == maxTags {
			break
		}
	}
	return cleaned
}
