package model

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProbeReadsPNGDimensions(t *testing.T) {
	e := Element{Kind: KindImage, ContentBlob: encodeTestPNG(t, 640, 480)}

	got, err := e.Probe()
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if got.Metadata["image_width"] != "640" {
		t.Errorf("image_width = %q, want 640", got.Metadata["image_width"])
	}
	if got.Metadata["image_height"] != "480" {
		t.Errorf("image_height = %q, want 480", got.Metadata["image_height"])
	}
}

func TestProbeRejectsNonImageKind(t *testing.T) {
	e := Element{Kind: KindParagraph, ContentBlob: encodeTestPNG(t, 10, 10)}
	if _, err := e.Probe(); err == nil {
		t.Fatal("expected an error probing a non-Image element")
	}
}

func TestProbeRejectsEmptyContent(t *testing.T) {
	e := Element{Kind: KindImage}
	if _, err := e.Probe(); err == nil {
		t.Fatal("expected an error probing an Image element with no content")
	}
}
