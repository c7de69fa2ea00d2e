// Package imaging validates and scales provider images before they are stored
// as thumbnails.
//
// # Validation
//
// Inputs may be JPEG, PNG or WebP. Thumbnail reads the image header first and
// rejects, before any pixel is decoded:
//
//   - empty inputs and inputs over MaxBytes (ErrTooLarge)
//   - formats other than the three above (ErrFormat)
//   - images smaller than MinWidth x MinHeight (ErrTooSmall)
//   - canvases declaring more than MaxPixels pixels (ErrTooLarge)
//
// # Scaling
//
// Accepted images are scaled down to fit the MaxWidth x MaxHeight box, after a
// center crop to the box ratio when KeepRatio is false. Scaling uses
// golang.org/x/image/draw and the result is re-encoded as JPEG.
// Images already inside the box are never enlarged.
//
// # Usage
//
//	thumb, err := imaging.Thumbnail(raw, imaging.DefaultOptions())
//	if errors.Is(err, imaging.ErrTooSmall) {
//	    // the provider image is kept out of the catalog
//	}
package imaging
