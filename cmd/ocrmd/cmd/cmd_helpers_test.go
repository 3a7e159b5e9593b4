package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/tsawler/layoutmd/config"
)

func newTestManager(t *testing.T) (*config.Manager, error) {
	t.Helper()
	return config.NewManager("")
}

func writeTinyPNG(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
