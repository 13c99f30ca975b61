package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/askiada/go-deckbuilder/pkg/deck"
	"github.com/askiada/go-deckbuilder/pkg/workflow"
)

// Config selects the models used for the three gateway operations.
type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

const (
	defaultTextModel  = "gemini-2.0-flash"
	defaultImageModel = "imagen-3.0-generate-002"
)

// Gemini implements workflow.ModelGateway on the Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    Config
	log    *zap.Logger
}

// NewGemini creates a gateway client. The API key is required.
func NewGemini(ctx context.Context, cfg Config, log *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gateway API key is required")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create genai client")
	}

	return &Gemini{client: client, cfg: cfg, log: log}, nil
}

// GenerateDeck asks for a full structured composition from an outline.
func (g *Gemini) GenerateDeck(ctx context.Context, spec workflow.DeckSpec) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(compositionUserPrompt(spec.Outline, spec.Theme, string(spec.Format)), genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(compositionSystemPrompt, genai.RoleUser),
	}

	g.log.Debug("generating composition", zap.String("model", g.cfg.TextModel))

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TextModel, contents, cfg)
	if err != nil {
		return nil, g.classify(err)
	}

	return g.payload(resp)
}

// AnalyzePage asks for the structured description of one page image.
func (g *Gemini) AnalyzePage(ctx context.Context, img workflow.PageImage) ([]byte, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(img.Data, img.MIME),
		genai.NewPartFromText(analysisUserPrompt(img.Space.Width, img.Space.Height)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(analysisSystemPrompt, genai.RoleUser),
	}

	g.log.Debug("analyzing page image",
		zap.String("model", g.cfg.TextModel),
		zap.String("space", img.Space.String()))

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TextModel, contents, cfg)
	if err != nil {
		return nil, g.classify(err)
	}

	return g.payload(resp)
}

// GenerateImage produces raster bytes for a prompt.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string, space deck.Space) ([]byte, error) {
	g.log.Debug("generating image",
		zap.String("model", g.cfg.ImageModel),
		zap.String("space", space.String()))

	resp, err := g.client.Models.GenerateImages(ctx, g.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{})
	if err != nil {
		return nil, g.classify(err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, &Error{Kind: KindInvalidResponse, cause: errors.New("no image returned")}
	}

	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func (g *Gemini) payload(resp *genai.GenerateContentResponse) ([]byte, error) {
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Kind: KindInvalidResponse, cause: errors.New("empty response")}
	}

	return []byte(text), nil
}

// classify maps service failures onto the gateway taxonomy. Authentication
// failures are wrapped as Permanent so the step runner stops immediately;
// rate limits and timeouts stay retryable.
func (g *Gemini) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return workflow.Permanent(&Error{Kind: KindAuth, cause: err})
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, cause: err}
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return &Error{Kind: KindTimeout, cause: err}
		}
		if apiErr.Code >= http.StatusInternalServerError {
			return &Error{Kind: KindUnavailable, cause: err}
		}
	}

	return errors.Wrap(err, "model call failed")
}

var _ workflow.ModelGateway = (*Gemini)(nil)
