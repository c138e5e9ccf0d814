package encoder

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/file-analyzer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct {
	openErr error
}

func (f failingSource) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(errReader{}), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestEncode_RoundTrip(t *testing.T) {
	binary := make([]byte, 256)
	for i := range binary {
		binary[i] = byte(i)
	}

	tests := []struct {
		name     string
		content  []byte
		mimeType string
	}{
		{name: "empty file", content: []byte{}, mimeType: "text/plain"},
		{name: "ten byte text", content: []byte("0123456789"), mimeType: "text/plain"},
		{name: "binary non-utf8", content: []byte{0xff, 0xfe, 0x00, 0x80, 0xc3, 0x28}, mimeType: "application/octet-stream"},
		{name: "all byte values", content: binary, mimeType: "application/pdf"},
		{name: "no mime type", content: []byte("abc"), mimeType: ""},
	}

	enc := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &models.FileHandle{Name: "f", MimeType: tt.mimeType, Source: models.BytesSource(tt.content)}

			payload, err := enc.Encode(context.Background(), file)
			require.NoError(t, err)

			decoded, err := base64.StdEncoding.DecodeString(payload.Data)
			require.NoError(t, err)
			assert.Equal(t, len(tt.content), len(decoded))
			assert.Equal(t, string(tt.content), string(decoded))
			assert.Equal(t, tt.mimeType, payload.ContentType)
			assert.NotContains(t, payload.Data, "data:")
		})
	}
}

func TestEncode_ReadErrors(t *testing.T) {
	enc := New()

	t.Run("open fails", func(t *testing.T) {
		file := &models.FileHandle{Name: "gone.txt", Source: failingSource{openErr: os.ErrNotExist}}
		_, err := enc.Encode(context.Background(), file)

		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "gone.txt", readErr.Name)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("read fails", func(t *testing.T) {
		file := &models.FileHandle{Name: "flaky.bin", Source: failingSource{}}
		_, err := enc.Encode(context.Background(), file)

		var readErr *ReadError
		assert.ErrorAs(t, err, &readErr)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := enc.Encode(context.Background(), &models.FileHandle{Name: "x"})
		var readErr *ReadError
		assert.ErrorAs(t, err, &readErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		file := &models.FileHandle{Name: "a", Source: models.BytesSource("abc")}
		_, err := enc.Encode(ctx, file)

		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil handle", func(t *testing.T) {
		_, err := enc.Encode(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNilFile)
	})
}

func TestStripDataURIPrefix(t *testing.T) {
	assert.Equal(t, "aGVsbG8=", StripDataURIPrefix("data:text/plain;base64,aGVsbG8="))
	assert.Equal(t, "aGVsbG8=", StripDataURIPrefix("aGVsbG8="))
	assert.Equal(t, "", StripDataURIPrefix("data:;base64,"))
}

func TestDecodeDataURL(t *testing.T) {
	data, mimeType, err := DecodeDataURL("data:text/csv;base64,YSxi")
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
	assert.Equal(t, "text/csv", mimeType)

	data, mimeType, err = DecodeDataURL("YSxi")
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
	assert.Empty(t, mimeType)

	_, _, err = DecodeDataURL("data:text/plain,hello")
	assert.Error(t, err)

	_, _, err = DecodeDataURL("not-valid-base64!!!")
	assert.Error(t, err)
}
