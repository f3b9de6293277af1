package core

import (
	"regexp"
	"strings"
)

// Structural feature weights. Each attribute that matches the profile's
// expectation contributes its full weight; range and url attributes award
// partial credit inside a soft band.
const (
	weightBodyLength      = 2.0
	weightGreeting        = 1.5
	weightSignature       = 1.5
	weightDisclaimer      = 2.0
	weightURLMatch        = 2.5
	weightFormality       = 2.0
	weightParagraphCount  = 1.5
	weightSenderStructure = 2.5

	minStructuralScore      = 2.0
	minStructuralConfidence = 0.04
)

var (
	greetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^(dear|hello|hi|greetings|good\s+(morning|afternoon|evening))`),
	}

	signaturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(sincerely|regards|best|thank you|thanks|cheers),?\s*\n`),
		regexp.MustCompile(`(?m)\n[-–—]{2,}\s*\n`),
		regexp.MustCompile(`(?i)(sent from my|get outlook)`),
	}

	disclaimerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(confidential|disclaimer|privileged|intended recipient)`),
		regexp.MustCompile(`(?i)(this (email|message|communication) (is|may be))`),
		regexp.MustCompile(`(?i)(do not (distribute|forward|share))`),
	}

	noreplyPattern   = regexp.MustCompile(`(?i)no.?reply|donotreply`)
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
)

var formalIndicators = []string{
	"pursuant", "hereby", "aforementioned", "regarding", "enclosed",
	"please find", "kindly", "respectfully", "we regret", "be advised",
}

var casualIndicators = []string{
	"hey", "thanks!", "awesome", "cool", "btw", "fyi", "asap",
	"gonna", "wanna", "gotta", ":)", "!!",
}

var departmentIndicators = []string{
	"support", "billing", "sales", "info", "contact",
	"admin", "help", "service", "team", "notifications",
}

// structuralFeatures holds the attributes derived from a record's body and
// sender before they are compared against each profile's template.
type structuralFeatures struct {
	bodyLength     int
	paragraphCount int
	hasGreeting    bool
	hasSignature   bool
	hasDisclaimer  bool
	formality      string
	hasURL         bool
	senderNoreply  bool
	senderDept     bool
	senderTLDType  string
}

// StructuralScorer implements the structural template method: best-effort
// scoring of how well a record's shape (length, paragraphs, greeting,
// signature, disclaimer, formality, url presence) fits each domain's
// template. Like the keyword method it is a pure function of
// (record, registry); unlike it, its contract is approximate fit rather than
// ground truth.
type StructuralScorer struct {
	registry *Registry
}

// NewStructuralScorer creates a structural template scorer over the registry.
func NewStructuralScorer(registry *Registry) *StructuralScorer {
	return &StructuralScorer{registry: registry}
}

// Score extracts the record's structural features once and matches them
// against every registered template, ties broken by registration order.
func (s *StructuralScorer) Score(record *EmailRecord) MethodScore {
	features := extractFeatures(record)

	raw := make(map[string]float64, s.registry.Len())
	for _, p := range s.registry.profiles {
		raw[p.Name] = scoreTemplateMatch(features, p)
	}
	return finishScore(s.registry, raw, minStructuralScore, minStructuralConfidence)
}

func extractFeatures(record *EmailRecord) structuralFeatures {
	body := record.Body

	f := structuralFeatures{
		bodyLength: len(body),
		hasURL:     record.HasURL,
	}

	for _, re := range greetingPatterns {
		if re.MatchString(body) {
			f.hasGreeting = true
			break
		}
	}
	for _, re := range signaturePatterns {
		if re.MatchString(body) {
			f.hasSignature = true
			break
		}
	}
	for _, re := range disclaimerPatterns {
		if re.MatchString(body) {
			f.hasDisclaimer = true
			break
		}
	}

	for _, part := range paragraphSplitRe.Split(body, -1) {
		if strings.TrimSpace(part) != "" {
			f.paragraphCount++
		}
	}

	f.formality = assessFormality(body)

	sender := strings.ToLower(record.Sender)
	f.senderNoreply = noreplyPattern.MatchString(sender)

	localPart := sender
	if at := strings.Index(sender, "@"); at >= 0 {
		localPart = sender[:at]
	}
	for _, dept := range departmentIndicators {
		if strings.Contains(localPart, dept) {
			f.senderDept = true
			break
		}
	}

	switch {
	case strings.Contains(sender, ".gov"):
		f.senderTLDType = "government"
	case strings.Contains(sender, ".edu"):
		f.senderTLDType = "education"
	case strings.Contains(sender, ".org"), strings.Contains(sender, ".net"), strings.Contains(sender, ".com"):
		f.senderTLDType = "commercial"
	default:
		f.senderTLDType = "unknown"
	}

	return f
}

// assessFormality maps indicator densities to one of the three formality
// levels. The margin of one keeps mixed bodies in the semi-formal middle.
func assessFormality(body string) string {
	bodyLower := strings.ToLower(body)

	formalCount := 0
	for _, ind := range formalIndicators {
		if strings.Contains(bodyLower, ind) {
			formalCount++
		}
	}
	casualCount := 0
	for _, ind := range casualIndicators {
		if strings.Contains(bodyLower, ind) {
			casualCount++
		}
	}

	switch {
	case formalCount > casualCount+1:
		return FormalityFormal
	case casualCount > formalCount+1:
		return FormalityCasual
	default:
		return FormalitySemiFormal
	}
}

func scoreTemplateMatch(f structuralFeatures, p *compiledProfile) float64 {
	score := 0.0

	// Length and paragraph count award partial credit inside a soft band
	// around the profile's range, zero well outside it.
	score += rangeCredit(f.bodyLength, p.TypicalBodyLength, weightBodyLength)
	score += rangeCredit(f.paragraphCount, p.TypicalParagraphs, weightParagraphCount)

	if f.hasGreeting == p.HasGreeting {
		score += weightGreeting
	}
	if f.hasSignature == p.HasSignature {
		score += weightSignature
	}
	if f.hasDisclaimer == p.HasDisclaimer {
		score += weightDisclaimer
	}

	if f.hasURL == p.URLExpected {
		score += weightURLMatch
	} else {
		score += weightURLMatch * 0.3
	}

	if f.formality == p.FormalityLevel {
		score += weightFormality
	} else if f.formality == FormalitySemiFormal || p.FormalityLevel == FormalitySemiFormal {
		score += weightFormality * 0.5
	}

	if f.senderTLDType == p.Name {
		score += weightSenderStructure
	} else if f.senderNoreply && isNotificationHeavy(p.Name) {
		score += weightSenderStructure * 0.5
	}

	return score
}

// rangeCredit awards the full weight inside the range, half weight in the
// soft band (down to half the minimum, up to twice the maximum), nothing
// beyond that.
func rangeCredit(v int, r IntRange, weight float64) float64 {
	if r.Contains(v) {
		return weight
	}
	if float64(v) < float64(r.Min)*0.5 || float64(v) > float64(r.Max)*2 {
		return 0
	}
	return weight * 0.5
}

// isNotificationHeavy marks domains whose mail is predominantly automated,
// where a noreply sender is weak evidence of a match.
func isNotificationHeavy(domain string) bool {
	switch domain {
	case "technology", "retail", "logistics":
		return true
	}
	return false
}
