package raster

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Validate checks that the image can be handed to an OpenCV operation.
func (ri *Image) Validate(operation string) error {
	if ri == nil {
		return fmt.Errorf("image is nil for operation: %s", operation)
	}

	return ri.With(func(m gocv.Mat) error {
		if m.Empty() {
			return fmt.Errorf("Mat is empty for operation: %s", operation)
		}
		if m.Rows() <= 0 || m.Cols() <= 0 {
			return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
				m.Cols(), m.Rows(), operation)
		}
		switch m.Channels() {
		case 1, 3, 4:
		default:
			return fmt.Errorf("%s needs 1, 3 or 4 channels, got %d", operation, m.Channels())
		}
		return nil
	})
}
