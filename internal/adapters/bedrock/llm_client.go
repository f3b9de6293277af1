package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Client scores records against the domain registry using Amazon Bedrock.
// It implements core.MethodScorer.
type Client struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
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

// NewClient creates a new Bedrock scorer over the given domain names.
func NewClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	domains []string,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
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
	}
}

// ScoreRecord asks the model to classify the record into one of the
// registered domains.
func (c *Client) ScoreRecord(ctx context.Context, record *core.EmailRecord) (core.MethodScore, error) {
	body := c.textProcessor.ProcessText(record.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, strings.Join(c.domains, ", "), record.Sender, record.Receiver, record.Subject, body)

	// Request payload shape depends on the model family.
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return core.MethodScore{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return core.MethodScore{}, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractResponseText(resp.Body)
	if err != nil {
		return core.MethodScore{}, err
	}

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

// extractResponseText pulls the generated text out of the model-family
// specific response envelope.
func (c *Client) extractResponseText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(body), nil
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

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *Client) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *Client) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
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
