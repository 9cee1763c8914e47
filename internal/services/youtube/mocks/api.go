// Package mocks provides a testify mock of the YouTube publishing API
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/youtube/v3"
)

// MockAPI is a mock implementation of youtube.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) InsertVideo(ctx context.Context, video *youtube.Video, media io.Reader) (*youtube.Video, error) {
	// media is drained so tests can assert on what would have been uploaded
	body, _ := io.ReadAll(media)
	ret := m.Called(video, string(body))
	var v *youtube.Video
	if got := ret.Get(0); got != nil {
		v = got.(*youtube.Video)
	}
	return v, ret.Error(1)
}

func (m *MockAPI) SetThumbnail(ctx context.Context, videoID string, media io.Reader) error {
	body, _ := io.ReadAll(media)
	ret := m.Called(videoID, string(body))
	return ret.Error(0)
}
