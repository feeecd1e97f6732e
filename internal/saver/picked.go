package saver

import (
	"context"

	"saf-demo/internal/codec"
	"saf-demo/internal/logger"
	"saf-demo/internal/raster"

	"fyne.io/fyne/v2"
)

// PickedDestination writes into a single document chosen in the save dialog.
// The dialog result carries its own one-off grant, so no folder token is used.
type PickedDestination struct {
	logger logger.Logger
}

func NewPickedDestination(log logger.Logger) *PickedDestination {
	if log == nil {
		log = logger.NewNop()
	}
	return &PickedDestination{logger: log}
}

// SuggestedName is the file name pre-filled in the save dialog.
func (p *PickedDestination) SuggestedName(name string, format codec.Format) string {
	return format.FileName(name)
}

// SaveTo encodes img into dest and closes it. A nil dest means the dialog was
// dismissed. img is released on return.
func (p *PickedDestination) SaveTo(ctx context.Context, dest fyne.URIWriteCloser, img *raster.Image, format codec.Format) Result {
	defer release(img)

	if dest == nil {
		p.logger.Debug("PickedDestination", "no destination chosen", nil)
		return failed(ErrCanceled)
	}

	data, err := encode(ctx, img, format)
	if err != nil {
		dest.Close()
		return p.fail(err, dest, format)
	}

	if err := writeAll(dest, data); err != nil {
		return p.fail(err, dest, format)
	}

	p.logger.Info("PickedDestination", "image saved", map[string]interface{}{
		"destination": dest.URI().String(),
		"format":      format.String(),
		"bytes":       len(data),
	})
	return succeeded(dest.URI().String())
}

func (p *PickedDestination) fail(err error, dest fyne.URIWriteCloser, format codec.Format) Result {
	p.logger.Error("PickedDestination", err, map[string]interface{}{
		"destination": dest.URI().String(),
		"format":      format.String(),
	})
	return failed(err)
}
