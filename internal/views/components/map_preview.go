package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/models"
)

const (
	PreviewWidth  = 192
	PreviewHeight = 192
)

// Thumbnailer produces a scaled preview for a map path.
type Thumbnailer interface {
	Thumbnail(mapPath string) (image.Image, error)
}

// MapPreview shows the thumbnail of the selected game's map.
type MapPreview struct {
	container   *fyne.Container
	image       *canvas.Image
	nameLabel   *widget.Label
	placeholder image.Image
	thumbs      Thumbnailer
	text        Text

	mapPath    string
	hasPreview bool
}

func NewMapPreview(thumbs Thumbnailer, text Text) *MapPreview {
	mp := &MapPreview{thumbs: thumbs, text: text}
	mp.createComponents()
	mp.buildLayout()
	return mp
}

func (mp *MapPreview) createComponents() {
	mp.placeholder = createPlaceholderImage(PreviewWidth, PreviewHeight)

	mp.image = canvas.NewImageFromImage(mp.placeholder)
	mp.image.FillMode = canvas.ImageFillContain
	mp.image.ScaleMode = canvas.ImageScaleSmooth
	mp.image.SetMinSize(fyne.NewSize(PreviewWidth, PreviewHeight))

	mp.nameLabel = widget.NewLabelWithStyle(mp.text("label.no_preview"), fyne.TextAlignCenter, fyne.TextStyle{})
	mp.nameLabel.Truncation = fyne.TextTruncateEllipsis
}

// createPlaceholderImage draws a flat panel with a border.
func createPlaceholderImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	fill := color.RGBA{R: 40, G: 44, B: 40, A: 255}
	border := color.RGBA{R: 90, G: 100, B: 90, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				img.Set(x, y, border)
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}

func (mp *MapPreview) buildLayout() {
	mp.container = container.NewBorder(
		widget.NewLabelWithStyle(mp.text("label.map"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mp.nameLabel,
		nil, nil,
		container.NewStack(
			canvas.NewRectangle(color.RGBA{R: 20, G: 22, B: 20, A: 255}),
			mp.image,
		),
	)
}

// SetMap loads the preview for mapPath. An empty path or a missing preview
// shows the placeholder.
func (mp *MapPreview) SetMap(mapPath string) {
	if mapPath == mp.mapPath && (mp.hasPreview || mapPath == "") {
		return
	}
	mp.mapPath = mapPath
	mp.hasPreview = false
	mp.image.Image = mp.placeholder

	if mapPath == "" {
		mp.nameLabel.SetText(mp.text("label.no_preview"))
	} else {
		mp.nameLabel.SetText(models.MapName(mapPath))
		if mp.thumbs != nil {
			if img, err := mp.thumbs.Thumbnail(mapPath); err == nil && img != nil {
				mp.image.Image = img
				mp.hasPreview = true
			}
		}
	}
	mp.image.Refresh()
}

func (mp *MapPreview) HasPreview() bool {
	return mp.hasPreview
}

func (mp *MapPreview) MapPath() string {
	return mp.mapPath
}

func (mp *MapPreview) NameLabel() *widget.Label {
	return mp.nameLabel
}

// GetContainer returns the main container
func (mp *MapPreview) GetContainer() *fyne.Container {
	return mp.container
}
