package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/adapters/bedrock"
	"github.com/montimage/email-domain-classifier/internal/adapters/gemini"
	"github.com/montimage/email-domain-classifier/internal/adapters/openai"
	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// LLMFactory creates third-method scorers
type LLMFactory struct {
	cfg           *config.Config
	registry      *core.Registry
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, registry *core.Registry, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		registry:      registry,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new third-method scorer based on the configuration
func (f *LLMFactory) CreateScorer() (core.MethodScorer, error) {
	llmConfig := f.cfg.GetLLM()
	domains := f.registry.Names()

	switch llmConfig.Provider {
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, domains, f.logger, f.textProcessor)
		return factory.CreateScorer()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, domains, f.logger, f.textProcessor)
		return factory.CreateScorer()
	case "openai":
		factory := openai.NewFactory(f.cfg, domains, f.logger, f.textProcessor)
		return factory.CreateScorer()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
