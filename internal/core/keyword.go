package core

import (
	"strings"
)

// Keyword scoring component weights. Keyword densities are expressed as
// percentages of the body word count and capped so a single repeated term
// cannot dominate the score.
const (
	weightSenderPattern    = 4.0
	weightSubjectPattern   = 3.5
	weightSubjectKeyword   = 2.5
	weightPrimaryKeyword   = 3.0
	weightSecondaryKeyword = 1.5

	primaryDensityCap   = 15.0
	secondaryDensityCap = 8.0

	// A method only reports a winner when its best raw score and its
	// normalized confidence clear these floors.
	minKeywordScore      = 1.5
	minKeywordConfidence = 0.05
)

// KeywordScorer implements the keyword taxonomy method: per-domain scores
// from primary/secondary keyword hits and sender/subject pattern matches.
// Scoring is a pure function of (record, registry).
type KeywordScorer struct {
	registry *Registry
}

// NewKeywordScorer creates a keyword taxonomy scorer over the registry.
func NewKeywordScorer(registry *Registry) *KeywordScorer {
	return &KeywordScorer{registry: registry}
}

// Score computes the keyword taxonomy score for every registered domain and
// picks the winner, ties broken by profile registration order.
func (s *KeywordScorer) Score(record *EmailRecord) MethodScore {
	raw := make(map[string]float64, s.registry.Len())
	for _, p := range s.registry.profiles {
		raw[p.Name] = s.scoreDomain(record, p)
	}
	return finishScore(s.registry, raw, minKeywordScore, minKeywordConfidence)
}

func (s *KeywordScorer) scoreDomain(record *EmailRecord, p *compiledProfile) float64 {
	score := 0.0

	sender := strings.ToLower(strings.TrimSpace(record.Sender))
	for _, re := range p.senderPatterns {
		if re.MatchString(sender) {
			score += weightSenderPattern
			break
		}
	}

	for _, re := range p.subjectPatterns {
		if re.MatchString(record.Subject) {
			score += weightSubjectPattern
			break
		}
	}

	subjectLower := strings.ToLower(record.Subject)
	for _, kw := range p.PrimaryKeywords {
		if strings.Contains(subjectLower, kw) {
			score += weightSubjectKeyword
		}
	}

	bodyLower := strings.ToLower(record.Body)
	bodyWords := len(strings.Fields(bodyLower))
	if bodyWords > 0 {
		primaryCount := 0
		for _, kw := range p.PrimaryKeywords {
			primaryCount += strings.Count(bodyLower, kw)
		}
		secondaryCount := 0
		for _, kw := range p.SecondaryKeywords {
			secondaryCount += strings.Count(bodyLower, kw)
		}

		primaryDensity := float64(primaryCount) / float64(bodyWords) * 100
		secondaryDensity := float64(secondaryCount) / float64(bodyWords) * 100

		score += min(primaryDensity*weightPrimaryKeyword, primaryDensityCap)
		score += min(secondaryDensity*weightSecondaryKeyword, secondaryDensityCap)
	}

	return score
}

// finishScore normalizes the raw per-domain scores by their sum, picks the
// top domain in registration order and applies the method's minimum raw
// score and confidence gates. A method that cannot clear the gates reports
// no winner, which downstream means "unsure".
func finishScore(registry *Registry, raw map[string]float64, minScore, minConfidence float64) MethodScore {
	total := 0.0
	for _, v := range raw {
		total += v
	}

	normalized := make(map[string]float64, len(raw))
	for k, v := range raw {
		if total > 0 {
			normalized[k] = v / total
		} else {
			normalized[k] = v
		}
	}

	best, bestRaw := registry.bestDomain(raw)
	confidence := normalized[best]
	if confidence < minConfidence || bestRaw < minScore {
		return MethodScore{Scores: normalized}
	}

	return MethodScore{
		Domain:     best,
		Confidence: confidence,
		Scores:     normalized,
	}
}
