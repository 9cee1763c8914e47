package youtube

import (
	"context"
	"io"

	"google.golang.org/api/youtube/v3"
)

// API is the part of the YouTube Data API used for publishing
type API interface {
	// InsertVideo uploads media with the given metadata and returns the created video
	InsertVideo(ctx context.Context, video *youtube.Video, media io.Reader) (*youtube.Video, error)

	// SetThumbnail replaces the thumbnail of an uploaded video
	SetThumbnail(ctx context.Context, videoID string, media io.Reader) error
}

// serviceAPI adapts *youtube.Service to API
type serviceAPI struct {
	service *youtube.Service
}

func (s *serviceAPI) InsertVideo(ctx context.Context, video *youtube.Video, media io.Reader) (*youtube.Video, error) {
	call := s.service.Videos.Insert([]string{"snippet", "status"}, video)
	return call.Media(media).Context(ctx).Do()
}

func (s *serviceAPI) SetThumbnail(ctx context.Context, videoID string, media io.Reader) error {
	_, err := s.service.Thumbnails.Set(videoID).Media(media).Context(ctx).Do()
	return err
}
