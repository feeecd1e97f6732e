package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DecodeConfig reads only the header of an encoded image and reports its format
// name and pixel dimensions.
func DecodeConfig(data []byte) (string, image.Config, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return name, cfg, nil
}
