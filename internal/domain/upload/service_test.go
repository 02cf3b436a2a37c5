package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/pkg/logger"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func newLocalService(t *testing.T) (*Service, string) {
	dir := t.TempDir()
	cfg := config.UploadConfig{MaxSize: 16, AllowedExtensions: []string{"png", ".JPG"}}
	return NewService(NewLocalStorage(dir, "/images/"), cfg, logger.Discard()), dir
}

func TestSaveImage_Local(t *testing.T) {
	s, dir := newLocalService(t)

	ref, err := s.SaveImage(context.Background(), fileHeader(t, "Cover.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/images/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/images/")))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveImage_NoFile(t *testing.T) {
	s, _ := newLocalService(t)
	ref, err := s.SaveImage(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestSaveImage_Rejects(t *testing.T) {
	s, dir := newLocalService(t)

	_, err := s.SaveImage(context.Background(), fileHeader(t, "script.sh", []byte("#!")))
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = s.SaveImage(context.Background(), fileHeader(t, "huge.jpg", bytes.Repeat([]byte("x"), 17)))
	assert.ErrorIs(t, err, ErrInvalidFile)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestLocalStorage_RejectsPaths(t *testing.T) {
	st := NewLocalStorage(t.TempDir(), "/images")
	_, err := st.Save(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Save(t *testing.T) {
	client := &fakeS3{}
	st := newS3Storage(client, config.StorageConfig{S3Bucket: "covers", S3Region: "eu-west-1"})

	ref, err := st.Save(context.Background(), "abc.png", "image/png", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://covers.s3.eu-west-1.amazonaws.com/games/abc.png", ref)
	assert.Equal(t, "covers", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "games/abc.png", aws.StringValue(client.input.Key))
	assert.Equal(t, "image/png", aws.StringValue(client.input.ContentType))
	assert.Equal(t, "data", string(client.body))

	cdn := newS3Storage(client, config.StorageConfig{S3Bucket: "covers", CDNBaseURL: "https://cdn.example.com/"})
	ref, err = cdn.Save(context.Background(), "abc.png", "image/png", bytes.NewReader([]byte("data")))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/games/abc.png", ref)

	client.err = errors.New("access denied")
	_, err = st.Save(context.Background(), "abc.png", "image/png", strings.NewReader("data"))
	assert.ErrorContains(t, err, "access denied")
}

func TestNewStorage(t *testing.T) {
	st, err := NewStorage(config.StorageConfig{Provider: "local", LocalPath: t.TempDir(), PublicPrefix: "/images"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, st)

	_, err = NewStorage(config.StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}
