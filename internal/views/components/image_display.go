package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 360
)

// ImageDisplay shows the image the save actions will write.
type ImageDisplay struct {
	container   *fyne.Container
	image       *canvas.Image
	placeholder image.Image
	hasImage    bool
}

// NewImageDisplay creates a new image display component
func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{placeholder: placeholderImage()}

	display.image = canvas.NewImageFromImage(display.placeholder)
	display.image.FillMode = canvas.ImageFillContain
	display.image.ScaleMode = canvas.ImageScaleSmooth
	display.image.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	background := canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255})
	display.container = container.NewStack(background, display.image)
	return display
}

func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ImageAreaWidth, ImageAreaHeight))

	lightGray := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	borderColor := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for y := 0; y < ImageAreaHeight; y++ {
		for x := 0; x < ImageAreaWidth; x++ {
			if x == 0 || y == 0 || x == ImageAreaWidth-1 || y == ImageAreaHeight-1 {
				img.Set(x, y, borderColor)
				continue
			}
			img.Set(x, y, lightGray)
		}
	}
	return img
}

// SetImage replaces the displayed image; nil restores the placeholder.
func (id *ImageDisplay) SetImage(img image.Image) {
	fyne.Do(func() {
		if img != nil {
			id.image.Image = img
			id.hasImage = true
		} else {
			id.image.Image = id.placeholder
			id.hasImage = false
		}
		id.image.Refresh()
	})
}

// HasImage returns true once an image has been shown
func (id *ImageDisplay) HasImage() bool {
	return id.hasImage
}

// GetContainer returns the main container
func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
