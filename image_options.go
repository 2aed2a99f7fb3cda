package blogsmith

// ImageOptions contains configuration for an image generation request.
type ImageOptions struct {
	Model   string
	Size    ImageSize
	Quality ImageQuality
}

// ImageOption is a functional option for configuring image generation requests.
type ImageOption func(*ImageOptions)

// WithImageModel sets the model to use for image generation.
func WithImageModel(model string) ImageOption {
	return func(o *ImageOptions) {
		o.Model = model
	}
}

// WithImageSize sets the dimensions for generated images.
func WithImageSize(size ImageSize) ImageOption {
	return func(o *ImageOptions) {
		o.Size = size
	}
}

// WithImageQuality sets the quality tier for generated images.
func WithImageQuality(q ImageQuality) ImageOption {
	return func(o *ImageOptions) {
		o.Quality = q
	}
}

// ApplyImageOptions applies functional options and fills defaults:
// square at medium quality.
func ApplyImageOptions(opts ...ImageOption) *ImageOptions {
	o := &ImageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if !o.Size.Valid() {
		o.Size = ImageSizeSquare
	}
	if !o.Quality.Valid() {
		o.Quality = ImageQualityMedium
	}
	return o
}
