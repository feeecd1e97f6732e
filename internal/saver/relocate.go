package saver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"saf-demo/internal/codec"
	"saf-demo/internal/documents"
	"saf-demo/internal/logger"
	"saf-demo/internal/raster"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// ChunkSize is the copy buffer used when relocating a file.
const ChunkSize = 1024

// DefaultMimeHint is used when the caller has no better type for the source.
const DefaultMimeHint = "*/*"

// Relocator moves a local file into the granted folder.
type Relocator struct {
	trees  TreeSource
	logger logger.Logger
}

func NewRelocator(trees TreeSource, log logger.Logger) *Relocator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Relocator{trees: trees, logger: log}
}

// Relocate copies sourcePath into a new document of the same name in the
// granted folder and deletes the source afterwards.
//
// If reading or writing fails the source is kept and the partially written
// destination is left where it is. Nothing cleans it up.
func (r *Relocator) Relocate(ctx context.Context, sourcePath, mimeHint string) Result {
	if mimeHint == "" {
		mimeHint = DefaultMimeHint
	}
	fields := map[string]interface{}{
		"source":    sourcePath,
		"mime_hint": mimeHint,
	}

	tree, err := r.trees.Tree()
	if err != nil {
		return r.fail(fmt.Errorf("%w: %w", ErrPermissionDenied, err), fields)
	}

	src := storage.NewFileURI(sourcePath)
	if !documents.Exists(src) {
		return r.fail(fmt.Errorf("source %s does not exist", sourcePath), fields)
	}

	in, err := documents.OpenReader(src)
	if err != nil {
		return r.fail(err, fields)
	}
	defer in.Close()

	dest, err := tree.CreateFile(src.Name())
	if err != nil {
		return r.fail(err, fields)
	}
	fields["destination"] = dest.String()

	if err := r.copyInto(ctx, dest, in); err != nil {
		r.logger.Warning("Relocator", "partial destination left behind", fields)
		return r.fail(err, fields)
	}

	// The source is only removed once the destination is closed without error.
	if err := documents.Delete(src); err != nil {
		r.logger.Warning("Relocator", "copied but could not delete source", map[string]interface{}{
			"source": sourcePath,
			"error":  err.Error(),
		})
	}

	r.logger.Info("Relocator", "file moved", fields)
	return succeeded(dest.String())
}

func (r *Relocator) copyInto(ctx context.Context, dest fyne.URI, in io.Reader) (err error) {
	out, err := documents.OpenWriter(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination: %w", cerr)
		}
	}()

	_, err = copyChunks(ctx, out, in, make([]byte, ChunkSize))
	return err
}

// copyChunks copies src to dst one buffer at a time, writing only the bytes
// each read returned. It stops between chunks when ctx is done.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, fmt.Errorf("write chunk: %w", werr)
			}
			if w != n {
				return written, fmt.Errorf("write chunk: %w", io.ErrShortWrite)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("read chunk: %w", rerr)
		}
	}
}

func (r *Relocator) fail(err error, fields map[string]interface{}) Result {
	r.logger.Error("Relocator", err, fields)
	return failed(err)
}

// Mover is the "save and relocate" action: a private save followed by a move
// into the granted folder.
type Mover struct {
	private   *PrivateStorage
	relocator *Relocator
}

func NewMover(private *PrivateStorage, relocator *Relocator) *Mover {
	return &Mover{private: private, relocator: relocator}
}

func (m *Mover) SaveAndRelocate(ctx context.Context, name string, img *raster.Image, format codec.Format) Result {
	saved := m.private.Save(ctx, name, img, format)
	if !saved.OK() {
		return saved
	}
	return m.relocator.Relocate(ctx, saved.Destination, DefaultMimeHint)
}
