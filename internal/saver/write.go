package saver

import (
	"context"
	"fmt"
	"io"

	"saf-demo/internal/codec"
	"saf-demo/internal/raster"
)

// encode checks the image is usable and the request is still wanted, then
// encodes at codec.MaxQuality.
func encode(ctx context.Context, img *raster.Image, format codec.Format) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("no image data to save")
	}
	if img.Released() {
		return nil, raster.ErrReleased
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	return codec.Encode(img, format, codec.MaxQuality)
}

// writeAll writes data to w and closes w on every path. A close error is
// reported when the write itself succeeded.
func writeAll(w io.WriteCloser, data []byte) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func release(img *raster.Image) {
	if img != nil {
		img.Release()
	}
}
