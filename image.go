package blogsmith

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageProvider defines the interface for image generation backends.
type ImageProvider interface {
	// GenerateImage creates images from a text prompt.
	GenerateImage(ctx context.Context, prompt string, opts ...ImageOption) (*ImageResponse, error)
}

// ImageResponse represents a complete response from an image generation provider.
type ImageResponse struct {
	Images []GeneratedImage
}

// GeneratedImage represents a single generated image.
// Exactly one of Data or Base64 is normally populated.
type GeneratedImage struct {
	Data   []byte
	Base64 string
	// RevisedPrompt contains the prompt the provider actually used, if it rewrote it.
	RevisedPrompt string
}

// Bytes returns the raw image bytes, decoding Base64 when needed.
func (g GeneratedImage) Bytes() ([]byte, error) {
	if len(g.Data) > 0 {
		return g.Data, nil
	}
	if g.Base64 == "" {
		return nil, ErrEmptyResponse
	}
	data, err := base64.StdEncoding.DecodeString(g.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}

// ImageSize represents the dimensions a post illustration may use.
type ImageSize string

const (
	ImageSizeSquare    ImageSize = "1024x1024"
	ImageSizePortrait  ImageSize = "1024x1536"
	ImageSizeLandscape ImageSize = "1536x1024"
)

// Valid reports whether s is one of the supported sizes.
func (s ImageSize) Valid() bool {
	switch s {
	case ImageSizeSquare, ImageSizePortrait, ImageSizeLandscape:
		return true
	}
	return false
}

// AspectRatio returns the closest aspect ratio for providers that take
// ratios instead of pixel sizes.
func (s ImageSize) AspectRatio() string {
	switch s {
	case ImageSizePortrait:
		return "3:4"
	case ImageSizeLandscape:
		return "4:3"
	default:
		return "1:1"
	}
}

// ImageQuality specifies the quality tier for generated images.
type ImageQuality string

const (
	ImageQualityLow    ImageQuality = "low"
	ImageQualityMedium ImageQuality = "medium"
	ImageQualityHigh   ImageQuality = "high"
)

// Valid reports whether q is one of the supported tiers.
func (q ImageQuality) Valid() bool {
	switch q {
	case ImageQualityLow, ImageQualityMedium, ImageQualityHigh:
		return true
	}
	return false
}
