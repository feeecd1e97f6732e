package services

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"
	"time"

	"saf-demo/internal/logger"
	"saf-demo/internal/raster"

	"fyne.io/fyne/v2/storage"
	_ "golang.org/x/image/webp"
)

// maxImageBytes caps how much of a source is read before decoding.
const maxImageBytes = 64 << 20

// ImageService loads the picture shown on screen and hands out fresh raster
// copies of it for each save.
type ImageService struct {
	logger logger.Logger

	mu      sync.RWMutex
	current image.Image
	source  string
}

func NewImageService(log logger.Logger) *ImageService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ImageService{logger: log}
}

// Load reads and decodes the image at uri (file, http or https) and makes it
// the current image.
func (is *ImageService) Load(ctx context.Context, uri string) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	startTime := time.Now()

	u, err := storage.ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("parse image uri: %w", err)
	}

	reader, err := storage.Reader(u)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer reader.Close()

	img, format, err := image.Decode(bufio.NewReader(io.LimitReader(reader, maxImageBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	is.set(img, uri)

	bounds := img.Bounds()
	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"source":  uri,
		"format":  format,
		"width":   bounds.Dx(),
		"height":  bounds.Dy(),
		"load_ms": time.Since(startTime).Milliseconds(),
	})

	return img, nil
}

// UsePlaceholder installs a generated gradient as the current image.
func (is *ImageService) UsePlaceholder(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 160,
				A: 255,
			})
		}
	}

	is.set(img, "placeholder")
	return img
}

// Current returns the image on screen, or nil before anything was loaded.
func (is *ImageService) Current() image.Image {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.current
}

// Source is the URI the current image came from, or "placeholder".
func (is *ImageService) Source() string {
	is.mu.RLock()
	defer is.mu.RUnlock()
	return is.source
}

// Snapshot copies the current image into a new raster owned by the caller.
func (is *ImageService) Snapshot() (*raster.Image, error) {
	img := is.Current()
	if img == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	return raster.FromImage(img)
}

func (is *ImageService) set(img image.Image, source string) {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.current = img
	is.source = source
}
