package openai

import (
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Factory creates OpenAI-backed scorers.
type Factory struct {
	cfg           *config.Config
	domains       []string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAI scorers over the given
// registered domain names.
func NewFactory(cfg *config.Config, domains []string, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		domains:       domains,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new OpenAI scorer.
func (f *Factory) CreateScorer() (core.MethodScorer, error) {
	openaiCfg := f.cfg.GetOpenAI()

	client := openai.NewClient(openaiCfg.APIKey)

	return NewClient(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.domains,
		f.logger,
		f.textProcessor,
	), nil
}
