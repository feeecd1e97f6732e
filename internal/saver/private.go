package saver

import (
	"context"
	"fmt"

	"saf-demo/internal/codec"
	"saf-demo/internal/documents"
	"saf-demo/internal/logger"
	"saf-demo/internal/raster"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// PrivateStorage saves into a folder that belongs to the application.
type PrivateStorage struct {
	root    fyne.URI
	legacy  fyne.URI
	dirName string
	logger  logger.Logger
}

// NewPrivateStorage uses root/dirName, falling back to legacy/dirName when
// root is nil or missing, and to the base folder itself when dirName cannot
// be created.
func NewPrivateStorage(root, legacy fyne.URI, dirName string, log logger.Logger) *PrivateStorage {
	if log == nil {
		log = logger.NewNop()
	}
	return &PrivateStorage{
		root:    root,
		legacy:  legacy,
		dirName: dirName,
		logger:  log,
	}
}

// Dir resolves the folder Save writes into.
func (p *PrivateStorage) Dir() (fyne.URI, error) {
	base := p.root
	if !isFolder(base) {
		if p.legacy == nil {
			return nil, fmt.Errorf("no private storage available")
		}
		p.logger.Warning("PrivateStorage", "storage root unavailable, using legacy root", map[string]interface{}{
			"legacy_root": p.legacy.String(),
		})
		base = p.legacy
	}

	dir, err := documents.EnsureDir(base, p.dirName)
	if err != nil {
		p.logger.Warning("PrivateStorage", "could not create save folder, using its parent", map[string]interface{}{
			"base":  base.String(),
			"error": err.Error(),
		})
		return base, nil
	}
	return dir, nil
}

// Save writes name.ext into Dir and returns the file path. An existing file
// with the same name is overwritten. img is released on return.
func (p *PrivateStorage) Save(ctx context.Context, name string, img *raster.Image, format codec.Format) Result {
	defer release(img)

	data, err := encode(ctx, img, format)
	if err != nil {
		return p.fail(err, name, format)
	}

	dir, err := p.Dir()
	if err != nil {
		return p.fail(err, name, format)
	}

	target, err := storage.Child(dir, format.FileName(name))
	if err != nil {
		return p.fail(fmt.Errorf("resolve target: %w", err), name, format)
	}

	w, err := documents.OpenWriter(target)
	if err != nil {
		return p.fail(err, name, format)
	}
	if err := writeAll(w, data); err != nil {
		return p.fail(err, name, format)
	}

	dest := destinationOf(target)
	p.logger.Info("PrivateStorage", "image saved", map[string]interface{}{
		"destination": dest,
		"format":      format.String(),
		"bytes":       len(data),
	})
	return succeeded(dest)
}

func (p *PrivateStorage) fail(err error, name string, format codec.Format) Result {
	p.logger.Error("PrivateStorage", err, map[string]interface{}{
		"name":   name,
		"format": format.String(),
	})
	return failed(err)
}

func isFolder(u fyne.URI) bool {
	if u == nil {
		return false
	}
	ok, err := storage.CanList(u)
	return err == nil && ok
}

// destinationOf reports plain paths for local files, URI strings otherwise.
func destinationOf(u fyne.URI) string {
	if u.Scheme() == "file" {
		return u.Path()
	}
	return u.String()
}
