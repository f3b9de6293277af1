package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/montimage/email-domain-classifier/internal/core"
)

const promptFormat = `You are an email domain classification system. Classify the following email into exactly one of these business domains: %s, or "unsure" if it does not clearly match any of them.
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

Respond only with the JSON object and nothing else.`

// parseClassification parses the model output, recovering the JSON object
// from surrounding prose when necessary.
func parseClassification(text string) (classificationResponse, error) {
	var resp classificationResponse
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return resp, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return resp, fmt.Errorf("failed to extract JSON from LLM response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return resp, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return resp, nil
}

// toMethodScore converts a model response into a MethodScore, discarding
// domains the registry does not know and clamping confidences into [0, 1].
func toMethodScore(resp classificationResponse, domains []string) core.MethodScore {
	known := make(map[string]bool, len(domains))
	for _, d := range domains {
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
