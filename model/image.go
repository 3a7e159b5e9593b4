package model

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Probe decodes e.ContentBlob just far enough to read its pixel
// dimensions, stamping "image_width" and "image_height" metadata onto the
// returned copy. It supports JPEG, PNG, GIF, and TIFF — the formats a
// scanned-document image element is realistically encoded as. Probe never
// rasterizes or re-encodes; it only reads the format header.
func (e Element) Probe() (Element, error) {
	if e.Kind != KindImage {
		return e, fmt.Errorf("model: Probe called on non-Image element (kind %s)", e.Kind)
	}
	if len(e.ContentBlob) == 0 {
		return e, fmt.Errorf("model: Probe called on Image element with no content")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(e.ContentBlob))
	if err != nil {
		return e, fmt.Errorf("model: probing image dimensions: %w", err)
	}

	out := e.WithMetadata("image_width", itoaPublic(cfg.Width))
	out = out.WithMetadata("image_height", itoaPublic(cfg.Height))
	return out, nil
}

func itoaPublic(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
