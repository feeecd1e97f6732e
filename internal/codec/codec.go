// Package codec turns a raster image into an encoded JPEG, PNG or WEBP byte stream.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"saf-demo/internal/raster"

	"gocv.io/x/gocv"
)

// MaxQuality is requested for every lossy encode. Not configurable.
const MaxQuality = 100

// ErrUnsupportedFormat is returned for a Format outside JPEG, PNG and WEBP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

type Format int

const (
	JPEG Format = iota
	PNG
	WEBP
)

type formatInfo struct {
	name      string
	extension string
	mimeType  string
	cvExt     gocv.FileExt
	lossy     bool
}

var formats = map[Format]formatInfo{
	JPEG: {name: "JPEG", extension: ".jpeg", mimeType: "image/jpeg", cvExt: gocv.JPEGFileExt, lossy: true},
	PNG:  {name: "PNG", extension: ".png", mimeType: "image/png", cvExt: gocv.PNGFileExt, lossy: false},
	WEBP: {name: "WEBP", extension: ".webp", mimeType: "image/webp", cvExt: gocv.FileExt(".webp"), lossy: true},
}

func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension includes the leading dot.
func (f Format) Extension() string {
	return formats[f].extension
}

func (f Format) MimeType() string {
	return formats[f].mimeType
}

func (f Format) Lossy() bool {
	return formats[f].lossy
}

// FileName appends the format extension to name.
func (f Format) FileName(name string) string {
	return name + f.Extension()
}

// ParseFormat accepts names and extensions, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WEBP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Encode compresses img at the given quality (0-100). PNG ignores quality and is
// always lossless.
func Encode(img *raster.Image, format Format, quality int) ([]byte, error) {
	info, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("quality %d outside [0,100]", quality)
	}
	if img == nil {
		return nil, fmt.Errorf("no image data to encode")
	}
	if err := img.Validate("encode " + info.name); err != nil {
		return nil, err
	}

	var out []byte
	err := img.With(func(m gocv.Mat) error {
		buf, err := gocv.IMEncodeWithParams(info.cvExt, m, params(format, quality))
		if err != nil {
			return fmt.Errorf("encode %s: %w", info.name, err)
		}
		defer buf.Close()

		// GetBytes aliases native memory freed by Close.
		out = append([]byte(nil), buf.GetBytes()...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("encode %s: empty output", info.name)
	}
	return out, nil
}

// EncodeTo encodes at MaxQuality and writes the result to w.
func EncodeTo(w io.Writer, img *raster.Image, format Format) (int, error) {
	data, err := Encode(img, format, MaxQuality)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", format, err)
	}
	return n, nil
}

func params(format Format, quality int) []int {
	switch format {
	case JPEG:
		return []int{int(gocv.IMWriteJpegQuality), quality}
	case WEBP:
		return []int{int(gocv.IMWriteWebpQuality), quality}
	default:
		return nil
	}
}
