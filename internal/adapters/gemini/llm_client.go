package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Client scores records against the domain registry using Google Gemini.
// It implements core.MethodScorer.
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	domains       []string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// classificationResponse represents the structured response from the model.
type classificationResponse struct {
	Domain      string             `json:"domain"`
	Confidence  float64            `json:"confidence"`
	Scores      map[string]float64 `json:"scores"`
	Explanation string             `json:"explanation"`
}

// NewClient creates a new Gemini scorer over the given domain names.
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	domains []string,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		domains:       domains,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are an email domain classification system. Classify the following email into exactly one of these business domains: %s, or "unsure" if it does not clearly match any of them.
Respond with a JSON object containing:
- domain: string (the chosen domain name, or "unsure")
- confidence: number between 0 and 1 (how confident you are in the chosen domain)
- scores: object mapping each candidate domain to a confidence between 0 and 1
- explanation: string (brief explanation of the decision)

Email:
From: %s
To: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ScoreRecord asks the model to classify the record into one of the
// registered domains.
func (c *Client) ScoreRecord(ctx context.Context, record *core.EmailRecord) (core.MethodScore, error) {
	body := c.textProcessor.ProcessText(record.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, strings.Join(c.domains, ", "), record.Sender, record.Receiver, record.Subject, body)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return core.MethodScore{}, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return core.MethodScore{}, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var parsed classificationResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		start := strings.Index(responseText, "{")
		end := strings.LastIndex(responseText, "}")
		if start < 0 || end <= start {
			return core.MethodScore{}, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[start:end+1]), &parsed); err != nil {
			return core.MethodScore{}, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	return c.toMethodScore(parsed), nil
}

// toMethodScore converts a model response into a MethodScore, discarding
// domains the registry does not know and clamping confidences into [0, 1].
func (c *Client) toMethodScore(resp classificationResponse) core.MethodScore {
	known := make(map[string]bool, len(c.domains))
	for _, d := range c.domains {
		known[d] = true
	}

	scores := make(map[string]float64, len(resp.Scores))
	for d, v := range resp.Scores {
		d = strings.ToLower(strings.TrimSpace(d))
		if known[d] {
			scores[d] = clamp01(v)
		}
	}

	domain := strings.ToLower(strings.TrimSpace(resp.Domain))
	if !known[domain] {
		domain = ""
	}
	confidence := clamp01(resp.Confidence)
	if domain != "" && scores[domain] == 0 {
		scores[domain] = confidence
	}

	return core.MethodScore{
		Domain:     domain,
		Confidence: confidence,
		Scores:     scores,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
