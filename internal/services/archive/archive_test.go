package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	inputs []*s3manager.UploadInput
	bodies []string
	err    error
}

func (s *stubUploader) UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	s.inputs = append(s.inputs, input)
	body, _ := io.ReadAll(input.Body)
	s.bodies = append(s.bodies, string(body))
	if s.err != nil {
		return nil, s.err
	}
	return &s3manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.StringValue(input.Key)}, nil
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "long_video_20260115_2_3.mp4")
	require.NoError(t, os.WriteFile(video, []byte("mp4"), 0644))

	stub := &stubUploader{}
	a := &S3Archiver{uploader: stub, bucket: "lessons", prefix: "published"}
	require.NoError(t, a.Archive(context.Background(), video))

	require.Len(t, stub.inputs, 1)
	assert.Equal(t, "lessons", aws.StringValue(stub.inputs[0].Bucket))
	assert.Equal(t, "published/long_video_20260115_2_3.mp4", aws.StringValue(stub.inputs[0].Key))
	assert.Equal(t, "video/mp4", aws.StringValue(stub.inputs[0].ContentType))
	assert.Equal(t, "mp4", stub.bodies[0])
}

func TestArchive_Errors(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	require.NoError(t, os.WriteFile(video, []byte("mp4"), 0644))

	a := &S3Archiver{uploader: &stubUploader{err: errors.New("AccessDenied")}, bucket: "b"}
	assert.ErrorContains(t, a.Archive(context.Background(), video), "AccessDenied")

	a = &S3Archiver{uploader: &stubUploader{}, bucket: "b"}
	assert.Error(t, a.Archive(context.Background(), filepath.Join(dir, "missing.mp4")))

	var nilArchiver *S3Archiver
	assert.Error(t, nilArchiver.Archive(context.Background(), video))
}

func TestKeyAndNew(t *testing.T) {
	a := &S3Archiver{}
	assert.Equal(t, "v.mp4", a.Key("/tmp/out/v.mp4"))

	archiver, err := New(config.ArchiveConfig{})
	require.NoError(t, err)
	assert.Nil(t, archiver, "no bucket disables archiving")

	archiver, err = New(config.ArchiveConfig{Bucket: "b", Prefix: "/videos/", Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "videos/v.mp4", archiver.Key("v.mp4"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("a.PNG"))
	assert.Equal(t, "audio/mpeg", contentType("a.mp3"))
	assert.Equal(t, "application/octet-stream", contentType("a"))
}
