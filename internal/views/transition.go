package views

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// DefaultFadeDuration is the length of the lobby's enter and exit fades.
const DefaultFadeDuration = 300 * time.Millisecond

// FadeTransition fades a black overlay out when a screen enters and back
// in when it leaves.
type FadeTransition struct {
	overlay  *canvas.Rectangle
	duration time.Duration
	anim     *fyne.Animation
	reverse  bool
	done     bool
}

func NewFadeTransition(duration time.Duration) *FadeTransition {
	overlay := canvas.NewRectangle(color.NRGBA{A: 0})
	overlay.Hide()
	return &FadeTransition{overlay: overlay, duration: duration, done: true}
}

// Overlay returns the object to stack above the screen content
func (f *FadeTransition) Overlay() fyne.CanvasObject {
	return f.overlay
}

func (f *FadeTransition) Start(reverse bool) {
	if f.anim != nil {
		f.anim.Stop()
		f.anim = nil
	}
	f.reverse = reverse
	f.done = false

	if f.duration <= 0 {
		f.step(1)
		return
	}
	f.step(0)
	f.anim = fyne.NewAnimation(f.duration, f.step)
	f.anim.Curve = fyne.AnimationEaseInOut
	f.anim.Start()
}

func (f *FadeTransition) step(progress float32) {
	opacity := 1 - progress
	if f.reverse {
		opacity = progress
	}
	f.overlay.FillColor = color.NRGBA{A: uint8(opacity * 255)}
	if opacity > 0 {
		f.overlay.Show()
	} else {
		f.overlay.Hide()
	}
	f.overlay.Refresh()

	if progress >= 1 {
		f.done = true
		f.anim = nil
	}
}

func (f *FadeTransition) Done() bool {
	return f.done
}
