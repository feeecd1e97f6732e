package saver

import (
	"context"
	"fmt"

	"saf-demo/internal/codec"
	"saf-demo/internal/documents"
	"saf-demo/internal/logger"
	"saf-demo/internal/raster"
)

// TreeSource hands out the currently granted folder. *gate.Gate implements it.
type TreeSource interface {
	Tree() (*documents.Tree, error)
}

// GrantedFolder saves into the folder the user granted through the gate.
type GrantedFolder struct {
	trees  TreeSource
	logger logger.Logger
}

func NewGrantedFolder(trees TreeSource, log logger.Logger) *GrantedFolder {
	if log == nil {
		log = logger.NewNop()
	}
	return &GrantedFolder{trees: trees, logger: log}
}

// Save creates name.ext in the granted folder and returns the new document URI.
// img is released on return.
func (g *GrantedFolder) Save(ctx context.Context, name string, img *raster.Image, format codec.Format) Result {
	defer release(img)

	tree, err := g.trees.Tree()
	if err != nil {
		return g.fail(fmt.Errorf("%w: %w", ErrPermissionDenied, err), name, format)
	}

	data, err := encode(ctx, img, format)
	if err != nil {
		return g.fail(err, name, format)
	}

	doc, err := tree.CreateFile(format.FileName(name))
	if err != nil {
		return g.fail(err, name, format)
	}

	w, err := documents.OpenWriter(doc)
	if err != nil {
		return g.fail(err, name, format)
	}
	if err := writeAll(w, data); err != nil {
		return g.fail(err, name, format)
	}

	g.logger.Info("GrantedFolder", "image saved", map[string]interface{}{
		"destination": doc.String(),
		"mime_type":   format.MimeType(),
		"bytes":       len(data),
	})
	return succeeded(doc.String())
}

func (g *GrantedFolder) fail(err error, name string, format codec.Format) Result {
	g.logger.Error("GrantedFolder", err, map[string]interface{}{
		"name":   name,
		"format": format.String(),
	})
	return failed(err)
}
