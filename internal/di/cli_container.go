package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/logging"
	"github.com/montimage/email-domain-classifier/internal/profiles"
)

// CLIFlags contains all command line flags for the one-shot classifier
type CLIFlags struct {
	// Email fields
	Sender   string
	Receiver string
	Subject  string
	Body     string
	BodyFile string
	HasURL   bool

	// Classification flags
	Method1Weight      float64
	Method2Weight      float64
	AgreementThreshold float64

	// Input flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseCLIFlags parses command line flags and returns a CLIFlags struct
func ParseCLIFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.StringVar(&flags.Sender, "sender", "", "Sender email address")
	flag.StringVar(&flags.Receiver, "receiver", "", "Receiver email address")
	flag.StringVar(&flags.Subject, "subject", "", "Email subject")
	flag.StringVar(&flags.Body, "body", "", "Email body")
	flag.StringVar(&flags.BodyFile, "body-file", "", "Read the email body from a file (use stdin when \"-\")")
	flag.BoolVar(&flags.HasURL, "urls", false, "Whether the email body contains URLs")

	flag.Float64Var(&flags.Method1Weight, "method1-weight", core.DefaultMethod1Weight, "Weight of the keyword taxonomy method")
	flag.Float64Var(&flags.Method2Weight, "method2-weight", core.DefaultMethod2Weight, "Weight of the structural template method")
	flag.Float64Var(&flags.AgreementThreshold, "threshold", core.DefaultAgreementThreshold, "Combined score required to assign a domain")

	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the one-shot classifier
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}
		return createConfigFromCLIFlags(flags), nil
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

	// Register classifier with the two built-in methods only
	if err := container.Provide(func(
		cfg *config.Config,
		registry *core.Registry,
		logger *zap.Logger,
	) *core.Classifier {
		classifierCfg := cfg.GetClassifier()
		weights := core.Weights{
			Method1: classifierCfg.Method1Weight,
			Method2: classifierCfg.Method2Weight,
		}
		return core.NewClassifier(registry, weights, classifierCfg.AgreementThreshold, nil, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromCLIFlags creates a configuration from command line flags
func createConfigFromCLIFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.method1_weight", flags.Method1Weight)
	v.Set("classifier.method2_weight", flags.Method2Weight)
	v.Set("classifier.agreement_threshold", flags.AgreementThreshold)

	return config.NewFromViper(v)
}
