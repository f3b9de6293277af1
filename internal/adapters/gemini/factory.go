package gemini

import (
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Factory creates Gemini-backed scorers.
type Factory struct {
	cfg           *config.Config
	domains       []string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Gemini scorers over the given
// registered domain names.
func NewFactory(cfg *config.Config, domains []string, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		domains:       domains,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new Gemini scorer.
func (f *Factory) CreateScorer() (core.MethodScorer, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxBodySize,
		f.domains,
		f.logger,
		f.textProcessor,
	)
}
