// Package mappreview turns map preview images into list-sized thumbnails.
package mappreview

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

var ErrNoPreview = errors.New("no preview image for map")

// previewExtensions are tried in order next to the map file.
var previewExtensions = []string{".png", ".jpg", ".tga"}

// Loader decodes and scales previews with OpenCV and caches the result by
// map path.
type Loader struct {
	dir  string
	size image.Point

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewLoader(dir string, width, height int) *Loader {
	return &Loader{
		dir:   dir,
		size:  image.Pt(width, height),
		cache: make(map[string]image.Image),
	}
}

// ResolvePreviewPath finds the preview file for a map path such as
// `maps\Alpine Assault\Alpine Assault.map`, relative to dir.
func ResolvePreviewPath(dir, mapPath string, exists func(string) bool) (string, error) {
	clean := strings.ReplaceAll(mapPath, "\\", "/")
	clean = strings.TrimSuffix(clean, filepath.Ext(clean))
	if clean == "" {
		return "", ErrNoPreview
	}
	base := filepath.Join(dir, filepath.FromSlash(clean))
	for _, ext := range previewExtensions {
		candidate := base + ext
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoPreview, mapPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Thumbnail returns the scaled preview for mapPath.
func (l *Loader) Thumbnail(mapPath string) (image.Image, error) {
	l.mu.Lock()
	if img, ok := l.cache[mapPath]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	path, err := ResolvePreviewPath(l.dir, mapPath, fileExists)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preview: %w", err)
	}

	img, err := l.scale(data)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}

	l.mu.Lock()
	l.cache[mapPath] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) scale(data []byte) (image.Image, error) {
	src, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	defer src.Close()
	if src.Empty() {
		return nil, errors.New("decoded image is empty")
	}
	if err := validateDimensions(src.Cols(), src.Rows()); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, fitWithin(image.Pt(src.Cols(), src.Rows()), l.size), 0, 0, gocv.InterpolationArea)
	if dst.Empty() {
		return nil, errors.New("resize produced an empty image")
	}

	return dst.ToImage()
}

// Forget drops every cached thumbnail.
func (l *Loader) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]image.Image)
}

// Shutdown satisfies the shutdown manager.
func (l *Loader) Shutdown() {
	l.Forget()
}
