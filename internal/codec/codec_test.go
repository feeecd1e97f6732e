package codec

import (
	"bytes"
	"errors"
	"testing"

	"saf-demo/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(t *testing.T, w, h int) *raster.Image {
	t.Helper()
	img, err := raster.Filled(w, h, 40, 120, 200)
	require.NoError(t, err)
	t.Cleanup(func() { img.Release() })
	return img
}

func TestEncodeRoundTripsDimensions(t *testing.T) {
	tests := []struct {
		format   Format
		wantName string
	}{
		{format: JPEG, wantName: "jpeg"},
		{format: PNG, wantName: "png"},
		{format: WEBP, wantName: "webp"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			data, err := Encode(newImage(t, 48, 20), tt.format, MaxQuality)
			require.NoError(t, err)

			name, cfg, err := DecodeConfig(data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, 48, cfg.Width)
			assert.Equal(t, 20, cfg.Height)
		})
	}
}

func TestEncodeToWritesBytes(t *testing.T) {
	var buf bytes.Buffer
	n, err := EncodeTo(&buf, newImage(t, 8, 8), PNG)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("device gone") }

func TestEncodeToReportsWriteFailure(t *testing.T) {
	_, err := EncodeTo(failingWriter{}, newImage(t, 8, 8), JPEG)
	assert.ErrorContains(t, err, "device gone")
}

func TestEncodeReleasedImage(t *testing.T) {
	img := newImage(t, 4, 4)
	img.Release()

	_, err := Encode(img, JPEG, MaxQuality)
	assert.ErrorIs(t, err, raster.ErrReleased)
}

func TestEncodeRejectsBadArguments(t *testing.T) {
	_, err := Encode(newImage(t, 4, 4), Format(42), MaxQuality)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Encode(newImage(t, 4, 4), JPEG, 101)
	assert.Error(t, err)

	_, err = Encode(nil, PNG, MaxQuality)
	assert.Error(t, err)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "20240101_000000.png", PNG.FileName("20240101_000000"))
	assert.Equal(t, ".jpeg", JPEG.Extension())
	assert.Equal(t, "image/webp", WEBP.MimeType())
	assert.True(t, JPEG.Lossy())
	assert.False(t, PNG.Lossy())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"jpg": JPEG, ".JPEG": JPEG, "png": PNG, "WebP": WEBP} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("tiff")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
