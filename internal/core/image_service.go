package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ImageService generates food photos. It uses the unified genai SDK because
// image output needs response modalities the text client does not expose.
type ImageService struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewImageService(ctx context.Context, apiKey, model string, logger *zap.Logger) (*ImageService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI image client: %w", err)
	}
	return &ImageService{client: client, model: model, logger: logger.Named("images")}, nil
}

// failure decides whether a failed call is reported. Cancellation is, even
// when the SDK error does not wrap ctx.Err(); anything else is logged.
func (s *ImageService) failure(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return err
	}
	s.logger.Warn("image generation failed", zap.String("model", s.model), zap.Error(err))
	return nil
}

// Generate returns the first inline image as a data URI. Model failures are
// logged and reported as "no image"; only cancellation is returned as an error.
func (s *ImageService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return "", s.failure(ctx, err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	s.logger.Info("image model returned no image", zap.String("model", s.model))
	return "", nil
}
