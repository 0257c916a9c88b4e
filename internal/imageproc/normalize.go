// Package imageproc turns uploaded images into bounded, re-encoded files
// ready for object storage.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"

	// decoders for the raster types in the allow-list
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	MaxWidth  = 1200
	MaxHeight = 1200
	Quality   = 80

	// MaxInputPixels bounds width×height of a decoded upload.
	MaxInputPixels = 0x3FFF * 0x3FFF
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWEBP = "image/webp"
	mimeSVG  = "image/svg+xml"
)

var (
	// ErrUnsupportedType is returned for MIME types outside the allow-list.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooManyPixels is returned when the header declares more than
	// MaxInputPixels.
	ErrTooManyPixels = errors.New("image dimensions too large")
)

var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/bmp":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/tiff":    true,
	"image/heif":    true,
	"image/heic":    true,
}

// Result is a normalized image.
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
}

// BaseType strips parameters from a Content-Type value and lower-cases it.
func BaseType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}

// IsAllowed reports whether mimeType is in the upload allow-list.
func IsAllowed(mimeType string) bool {
	return allowedTypes[BaseType(mimeType)]
}

// Normalize validates mimeType, then shrinks raster images to fit inside
// MaxWidth×MaxHeight and re-encodes them. PNG stays PNG, WEBP stays WEBP,
// everything else becomes JPEG. SVG is returned unchanged.
func Normalize(data []byte, mimeType string) (Result, error) {
	mt := BaseType(mimeType)
	if !allowedTypes[mt] {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mt)
	}

	if mt == mimeSVG {
		return Result{Data: data, ContentType: mimeSVG, Extension: "svg"}, nil
	}

	// only the header is read here
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxInputPixels {
			return Result{}, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", mt, err)
	}

	// Fit never enlarges an image that already fits the bounds.
	img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	switch mt {
	case mimePNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		if err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
		return Result{Data: buf.Bytes(), ContentType: mimePNG, Extension: "png"}, nil
	case mimeWEBP:
		if err := webp.Encode(&buf, img, webp.Options{Quality: Quality, Method: 4}); err != nil {
			return Result{}, fmt.Errorf("encode webp: %w", err)
		}
		return Result{Data: buf.Bytes(), ContentType: mimeWEBP, Extension: "webp"}, nil
	default:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		return Result{Data: buf.Bytes(), ContentType: mimeJPEG, Extension: "jpg"}, nil
	}
}

// StorageKey names an attachment of secretID uploaded at t.
func StorageKey(t time.Time, secretID uint, ext string) string {
	return fmt.Sprintf("public/%d_%d.%s", t.UnixMilli(), secretID, ext)
}
