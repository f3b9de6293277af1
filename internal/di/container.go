package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/factory"
	"github.com/montimage/email-domain-classifier/internal/logging"
	"github.com/montimage/email-domain-classifier/internal/processor"
	"github.com/montimage/email-domain-classifier/internal/profiles"
	"github.com/montimage/email-domain-classifier/internal/report"
	"github.com/montimage/email-domain-classifier/internal/routing"
	"github.com/montimage/email-domain-classifier/internal/utils"
)

// Flags contains all command line flags for the batch application
type Flags struct {
	// Input flags
	InputFile  string
	OutputDir  string
	ConfigFile string

	// Processing flags
	ChunkSize        int
	MaxBodyLength    int
	StrictValidation bool
	IncludeDetails   bool

	// Report flags
	ReportFormat string

	// Logging flags
	Verbose bool
	JSONLog bool
}

// ParseFlags parses command line flags and returns a Flags struct
func ParseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.InputFile, "input", "", "Input CSV file of emails to classify")
	flag.StringVar(&flags.OutputDir, "output-dir", "output", "Directory for routed output CSV files")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (searched in default locations when empty)")

	flag.IntVar(&flags.ChunkSize, "chunk-size", processor.DefaultChunkSize, "Records held in memory per chunk")
	flag.IntVar(&flags.MaxBodyLength, "max-body-length", 0, "Skip records with bodies longer than this (0 disables)")
	flag.BoolVar(&flags.StrictValidation, "strict", false, "Abort on the first validation failure")
	flag.BoolVar(&flags.IncludeDetails, "details", false, "Include per-method confidence columns in output")

	flag.StringVar(&flags.ReportFormat, "report", "text", "Report format (text, json)")

	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	flag.Parse()
	return flags
}

// BuildContainer creates and configures a dependency injection container for
// the batch application
func BuildContainer(flags *Flags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *Flags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *Flags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *Flags, logger *zap.Logger) (*config.Config, error) {
		var cfg *config.Config
		var err error
		if flags.ConfigFile != "" {
			cfg, err = config.NewFromFile(flags.ConfigFile)
		} else {
			cfg, err = config.New()
		}
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlagOverrides(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register domain profile registry
	if err := container.Provide(func(cfg *config.Config) (*core.Registry, error) {
		return profiles.Load(cfg)
	}); err != nil {
		return nil, err
	}

	// Register validator
	if err := container.Provide(core.NewValidator); err != nil {
		return nil, err
	}

	// Register routing overrides
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *routing.Overrides {
		return routing.NewOverrides(cfg.GetStringMapString("routing.overrides"), logger)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register the optional third method. A nil scorer means the classifier
	// runs with the two built-in methods only.
	if err := container.Provide(func(
		cfg *config.Config,
		llmFactory *factory.LLMFactory,
		cacheFactory *factory.CacheFactory,
		logger *zap.Logger,
	) (core.MethodScorer, error) {
		if !cfg.GetLLM().Enabled {
			return nil, nil
		}

		scorer, err := llmFactory.CreateScorer()
		if err != nil {
			return nil, err
		}

		if !cacheFactory.IsCacheEnabled() {
			return scorer, nil
		}
		resultCache, err := cacheFactory.CreateResultCache()
		if err != nil {
			return nil, err
		}
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		return core.NewCachedScorer(scorer, resultCache, ttl, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(
		cfg *config.Config,
		registry *core.Registry,
		third core.MethodScorer,
		logger *zap.Logger,
	) *core.Classifier {
		classifierCfg := cfg.GetClassifier()
		weights := core.Weights{
			Method1: classifierCfg.Method1Weight,
			Method2: classifierCfg.Method2Weight,
			Method3: classifierCfg.Method3Weight,
		}
		return core.NewClassifier(registry, weights, classifierCfg.AgreementThreshold, third, logger)
	}); err != nil {
		return nil, err
	}

	// Register processor
	if err := container.Provide(func(
		cfg *config.Config,
		classifier *core.Classifier,
		validator *core.Validator,
		overrides *routing.Overrides,
		logger *zap.Logger,
	) *processor.Processor {
		processorCfg := cfg.GetProcessor()
		opts := processor.Options{
			ChunkSize:        processorCfg.ChunkSize,
			MaxBodyLength:    processorCfg.MaxBodyLength,
			StrictValidation: processorCfg.StrictValidation,
			IncludeDetails:   processorCfg.IncludeDetails,
		}
		return processor.New(classifier, validator, overrides, opts, logger)
	}); err != nil {
		return nil, err
	}

	// Register reporter
	if err := container.Provide(report.NewReporter); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlagOverrides writes flags the user explicitly passed over the file
// and default configuration.
func applyFlagOverrides(cfg *config.Config, flags *Flags) {
	v := cfg.GetViper()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "chunk-size":
			v.Set("processor.chunk_size", flags.ChunkSize)
		case "max-body-length":
			v.Set("processor.max_body_length", flags.MaxBodyLength)
		case "strict":
			v.Set("processor.strict_validation", flags.StrictValidation)
		case "details":
			v.Set("processor.include_details", flags.IncludeDetails)
		}
	})
}
