// Package avatar turns raw member images into bounded-size references.
//
// The core never touches pixels: it stores whatever opaque reference
// string this package produces. Encoder is the injected capability; the
// default Resizer caps the longest edge and emits a JPEG data URI small
// enough to live inside the shared document.
package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	// Registered decoders for the formats uploads arrive in.
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// DefaultMaxEdge bounds the longest edge of an encoded avatar, in pixels.
const DefaultMaxEdge = 256

// Encoder converts a decoded image into a storable reference string.
type Encoder interface {
	Encode(img image.Image) (string, error)
}

// Resizer encodes avatars as JPEG data URIs, downscaling so the longest
// edge never exceeds MaxEdge. Images already within bounds pass through
// unscaled.
type Resizer struct {
	// MaxEdge is the pixel cap for the longest edge. Zero means
	// DefaultMaxEdge.
	MaxEdge int

	// Quality is the JPEG quality, 1-100. Zero means jpeg.DefaultQuality.
	Quality int
}

func (r *Resizer) Encode(img image.Image) (string, error) {
	maxEdge := r.MaxEdge
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("avatar: empty image")
	}

	if w > maxEdge || h > maxEdge {
		if w >= h {
			h = h * maxEdge / w
			w = maxEdge
		} else {
			w = w * maxEdge / h
			h = maxEdge
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
		img = scaled
	}

	quality := r.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("avatar: encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reads an uploaded image in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("avatar: decode image: %w", err)
	}
	return img, nil
}
