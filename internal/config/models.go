package config

// ClassifierConfig represents the classification engine configuration
type ClassifierConfig struct {
	Method1Weight      float64
	Method2Weight      float64
	Method3Weight      float64
	AgreementThreshold float64
}

// ProcessorConfig represents the streaming processor configuration
type ProcessorConfig struct {
	ChunkSize        int
	MaxBodyLength    int
	StrictValidation bool
	IncludeDetails   bool
}

// LLMConfig represents the configuration for the optional third method
type LLMConfig struct {
	Enabled  bool
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Method1Weight:      c.GetFloat64("classifier.method1_weight"),
		Method2Weight:      c.GetFloat64("classifier.method2_weight"),
		Method3Weight:      c.GetFloat64("classifier.method3_weight"),
		AgreementThreshold: c.GetFloat64("classifier.agreement_threshold"),
	}
}

// GetProcessor returns the processor configuration
func (c *Config) GetProcessor() ProcessorConfig {
	return ProcessorConfig{
		ChunkSize:        c.GetInt("processor.chunk_size"),
		MaxBodyLength:    c.GetInt("processor.max_body_length"),
		StrictValidation: c.GetBool("processor.strict_validation"),
		IncludeDetails:   c.GetBool("processor.include_details"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Enabled:  c.GetBool("llm.enabled"),
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}
