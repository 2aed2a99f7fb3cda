package openai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/blogsmith"
)

// GenerateImage generates images from a text prompt.
// gpt-image-* models always return base64; dall-e models are asked for it.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (*ai.ImageResponse, error) {
	options := ai.ApplyImageOptions(opts...)
	model := c.imageModel
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ImageGenerateParams{
		Model:  openai.ImageModel(model),
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize(options.Size),
		N:      openai.Int(1),
	}
	if strings.HasPrefix(model, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormat("b64_json")
		params.Quality = openai.ImageGenerateParamsQuality(dalleQuality(options.Quality))
	} else {
		params.Quality = openai.ImageGenerateParamsQuality(options.Quality)
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Data) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	images := make([]ai.GeneratedImage, len(resp.Data))
	for i, img := range resp.Data {
		images[i] = ai.GeneratedImage{
			Base64:        img.B64JSON,
			RevisedPrompt: img.RevisedPrompt,
		}
	}
	return &ai.ImageResponse{Images: images}, nil
}

func dalleQuality(q ai.ImageQuality) string {
	if q == ai.ImageQualityHigh {
		return "hd"
	}
	return "standard"
}
