package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"go-jobsearch-assistant/internal/config"
)

// NewProcessor builds a Processor over the configured Gemini model. A missing
// credential or a failed client init yields a degraded processor whose
// operations all return their empty/error results; that is logged once here.
func NewProcessor(ctx context.Context, cfg *config.Config) *Processor {
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ No Gemini API key provided. AI processing will be limited.")
		return &Processor{debug: cfg.Debug}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Printf("❌ Error initializing Gemini client: %v", err)
		return &Processor{debug: cfg.Debug}
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.2)
	model.SetTopP(0.8)
	model.SetTopK(40)
	model.SetMaxOutputTokens(2048)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	log.Printf("✅ Initialized %s model", cfg.GeminiModel)
	return &Processor{
		debug:  cfg.Debug,
		closer: client.Close,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", fmt.Errorf("generate content: %w", err)
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				return "", fmt.Errorf("no candidates returned")
			}
			var sb strings.Builder
			for _, part := range resp.Candidates[0].Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
			return sb.String(), nil
		},
	}
}
