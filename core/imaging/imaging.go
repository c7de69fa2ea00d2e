package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // posters are not always JPEG

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmpty is returned for zero-length input.
	ErrEmpty = errors.New("image is empty")
	// ErrTooLarge is returned when the input exceeds Options.MaxBytes or
	// declares more than Options.MaxPixels.
	ErrTooLarge = errors.New("image exceeds maximum size")
	// ErrTooSmall is returned when the decoded image is below the minimum dimensions.
	ErrTooSmall = errors.New("image below minimum dimensions")
	// ErrFormat is returned for undecodable or unaccepted formats.
	ErrFormat = errors.New("unsupported image format")
)

// AcceptedFormats are the decoder names a thumbnail source may use.
var AcceptedFormats = []string{"jpeg", "png", "webp"}

// Options bounds and shapes a thumbnail.
type Options struct {
	MaxBytes int
	// MaxPixels bounds the declared source canvas, checked before decoding.
	MaxPixels int
	MinWidth  int
	MinHeight int
	// MaxWidth and MaxHeight bound the output.
	MaxWidth  int
	MaxHeight int
	// KeepRatio scales inside the bounds. When false the image is center
	// cropped to the bounds' ratio first.
	KeepRatio bool
	Quality   int
}

// DefaultOptions matches the poster sizes the catalog displays.
func DefaultOptions() Options {
	return Options{
		MaxBytes:  10 << 20,
		MaxPixels: 50_000_000,
		MinWidth:  100,
		MinHeight: 100,
		MaxWidth:  750,
		MaxHeight: 1125,
		KeepRatio: true,
		Quality:   90,
	}
}

// Thumbnail validates src and re-encodes it as a bounded JPEG.
func Thumbnail(src []byte, opts Options) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmpty
	}
	if opts.MaxBytes > 0 && len(src) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(src))
	}

	// The header alone tells the canvas size, a few bytes can declare gigapixels
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !accepted(format) {
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}
	if cfg.Width < opts.MinWidth || cfg.Height < opts.MinHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooSmall, cfg.Width, cfg.Height)
	}
	if opts.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(opts.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	b := img.Bounds()

	if !opts.KeepRatio && opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		b = cropToRatio(b, opts.MaxWidth, opts.MaxHeight)
	}
	w, h := fit(b.Dx(), b.Dy(), opts.MaxWidth, opts.MaxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	quality := opts.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}

func accepted(format string) bool {
	for _, f := range AcceptedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// fit scales w x h down to fit maxW x maxH. Zero bounds are ignored.
func fit(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	return max(nw, 1), max(nh, 1)
}

// cropToRatio returns the centered sub-rectangle of b with ratio rw:rh.
func cropToRatio(b image.Rectangle, rw, rh int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w*rh > h*rw {
		nw := h * rw / rh
		x0 := b.Min.X + (w-nw)/2
		return image.Rect(x0, b.Min.Y, x0+nw, b.Max.Y)
	}
	nh := w * rh / rw
	y0 := b.Min.Y + (h-nh)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+nh)
}
