package reconcile

import (
	"catalog-sync/core/imaging"
)

// Config holds the synchronization settings loaded from the environment.
type Config struct {
	// ChunkSize is the flush threshold.
	ChunkSize int `mapstructure:"chunk_size" default:"1000"`
	// Limit caps the checked count of each run, 0 for none.
	Limit int `mapstructure:"limit" default:"0"`
	// ThumbsPrefix is the object prefix for stored thumbnails.
	ThumbsPrefix string `mapstructure:"thumbs_prefix" default:"thumbs"`
	// ThumbMaxWidth and ThumbMaxHeight bound stored thumbnails.
	ThumbMaxWidth  int `mapstructure:"thumb_max_width" default:"750"`
	ThumbMaxHeight int `mapstructure:"thumb_max_height" default:"1125"`
	// ThumbMinSide rejects images narrower or shorter than this.
	ThumbMinSide int `mapstructure:"thumb_min_side" default:"100"`
	// ThumbMaxBytes rejects larger source images.
	ThumbMaxBytes int `mapstructure:"thumb_max_bytes" default:"10485760"`
	// ThumbMaxPixels rejects sources declaring a larger canvas.
	ThumbMaxPixels int `mapstructure:"thumb_max_pixels" default:"50000000"`
}

// Options converts the configuration to engine options.
func (c Config) Options() Options {
	return Options{ChunkSize: c.ChunkSize, Limit: c.Limit}
}

// ThumbConfig converts the configuration to thumbnail settings for bucket.
func (c Config) ThumbConfig(bucket string) ThumbConfig {
	opts := imaging.DefaultOptions()
	if c.ThumbMaxWidth > 0 {
		opts.MaxWidth = c.ThumbMaxWidth
	}
	if c.ThumbMaxHeight > 0 {
		opts.MaxHeight = c.ThumbMaxHeight
	}
	if c.ThumbMinSide > 0 {
		opts.MinWidth, opts.MinHeight = c.ThumbMinSide, c.ThumbMinSide
	}
	if c.ThumbMaxBytes > 0 {
		opts.MaxBytes = c.ThumbMaxBytes
	}
	if c.ThumbMaxPixels > 0 {
		opts.MaxPixels = c.ThumbMaxPixels
	}
	return ThumbConfig{Bucket: bucket, Prefix: c.ThumbsPrefix, Imaging: opts}
}
