package vision

import (
	"context"
	"encoding/base64"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
)

const systemPrompt = `You are a grocery label analyst. You read a single product label photo and extract the price, the net weight or volume, and the product name.`

const extractionPrompt = `Read this product label photo and return a single JSON object, nothing else:
{
  "price": {"value": <number>, "currency": "<ISO code like EUR>", "confidence": <0.0-1.0>},
  "weight": {"value": <number>, "unit": "<g|kg|ml|l>", "confidence": <0.0-1.0>},
  "product": {"name": "<product name>", "brand": "<brand or empty>", "confidence": <0.0-1.0>}
}
Use 0 confidence for anything you cannot read.`

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client  sdk.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewClient creates a vision client backed by the Anthropic SDK.
func NewClient(cfg Config) Client {
	cfg = cfg.withDefaults()
	return &sdkClient{
		client:  sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 5),
	}
}

func (c *sdkClient) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*model.ExtractedData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.CodeNetworkError, err).WithMessage("rate limiter wait")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.cfg.Model),
		MaxTokens: c.cfg.MaxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mimeType, encoded),
				sdk.NewTextBlock(extractionPrompt),
			),
		},
	})
	if err != nil {
		return nil, apperr.FromAPICall(err)
	}

	usage := TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	usage.LogCost(c.cfg.Model)

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	return ParseExtraction(text)
}
