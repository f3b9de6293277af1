package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Factory creates Bedrock-backed scorers.
type Factory struct {
	cfg           *config.Config
	domains       []string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Bedrock scorers over the given
// registered domain names.
func NewFactory(cfg *config.Config, domains []string, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		domains:       domains,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateScorer creates a new Bedrock scorer.
func (f *Factory) CreateScorer() (core.MethodScorer, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	return NewClient(
		client,
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		bedrockCfg.MaxBodySize,
		f.domains,
		f.logger,
		f.textProcessor,
	), nil
}
