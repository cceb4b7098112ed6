package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"kalasa.app/kalasa/internal/config"
)

const (
	postSystemInstruction = "Act as a professional food content creator. " +
		"Write mouth-watering, honest descriptions and realistic ingredient lists."

	menuSystemInstruction = "Act as a restaurant menu planner. " +
		"Create complete, coherent menus with short appetizing descriptions."

	imagePromptPattern = "High quality food photography: %s, appetizing, cinematic lighting, top-down view."
)

var postDraftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"ingredients": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"tags":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"title", "description", "ingredients", "tags"},
}

var menuDraftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString},
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"price":       {Type: genai.TypeNumber},
				},
				Required: []string{"name", "description"},
			},
		},
	},
	Required: []string{"title", "items"},
}

// LLMService drafts structured post and menu text with Gemini and delegates
// photo generation to an ImageService.
type LLMService struct {
	client    *genai.Client
	images    *ImageService
	textModel string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewLLMService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*LLMService, error) {
	if err := cfg.RequireGeminiKey(); err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	images, err := NewImageService(ctx, cfg.GeminiAPIKey, cfg.ImageModel, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &LLMService{
		client:    client,
		images:    images,
		textModel: cfg.TextModel,
		timeout:   cfg.RequestTimeout,
		logger:    logger.Named("llm"),
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("error closing GenAI client", zap.Error(err))
		}
	}
}

func (s *LLMService) GeneratePostDraft(ctx context.Context, seedTitle string) (*PostDraft, error) {
	prompt := fmt.Sprintf("Generate a food post for: %s. "+
		"Include a mouth-watering description, a list of ingredients, and relevant tags.", seedTitle)

	text, err := s.generateJSON(ctx, postSystemInstruction, postDraftSchema, prompt)
	if err != nil {
		return nil, fmt.Errorf("post draft request failed: %w", err)
	}
	return parsePostDraft(text)
}

func (s *LLMService) GenerateMenuDraft(ctx context.Context, style, audience string) (*MenuDraft, error) {
	prompt := fmt.Sprintf("Create a complete menu idea. Style: %s. Target Audience: %s. "+
		"Provide 5-8 dishes with descriptions and optional prices.", style, audience)

	text, err := s.generateJSON(ctx, menuSystemInstruction, menuDraftSchema, prompt)
	if err != nil {
		return nil, fmt.Errorf("menu draft request failed: %w", err)
	}
	return parseMenuDraft(text)
}

func (s *LLMService) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.images.Generate(ctx, fmt.Sprintf(imagePromptPattern, prompt))
}

func (s *LLMService) generateJSON(ctx context.Context, instruction string, schema *genai.Schema, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.client.GenerativeModel(s.textModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(instruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	s.logger.Debug("gemini draft received", zap.String("model", s.textModel), zap.Duration("took", time.Since(start)))

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrMalformedDraft)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		} else {
			s.logger.Debug("ignoring non-text response part", zap.String("type", fmt.Sprintf("%T", part)))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", ErrMalformedDraft)
	}
	return out.String(), nil
}
