package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Client scores records against the domain registry using OpenAI chat
// completions. It implements core.MethodScorer.
type Client struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	domains       []string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// classificationResponse is the structured response expected from the model.
type classificationResponse struct {
	Domain      string             `json:"domain"`
	Confidence  float64            `json:"confidence"`
	Scores      map[string]float64 `json:"scores"`
	Explanation string             `json:"explanation"`
}

// NewClient creates a new OpenAI scorer over the given domain names.
func NewClient(
	client *openai.Client,
	modelName string,
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
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		domains:       domains,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  promptFormat,
	}
}

// ScoreRecord asks the model to classify the record into one of the
// registered domains.
func (c *Client) ScoreRecord(ctx context.Context, record *core.EmailRecord) (core.MethodScore, error) {
	body := c.textProcessor.ProcessText(record.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, strings.Join(c.domains, ", "), record.Sender, record.Receiver, record.Subject, body)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email domain classification system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return core.MethodScore{}, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.MethodScore{}, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := parseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		return core.MethodScore{}, err
	}
	return toMethodScore(parsed, c.domains), nil
}
