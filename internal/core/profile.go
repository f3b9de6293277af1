package core

import (
	"fmt"
	"regexp"
)

// Formality levels recognized in domain profiles.
const (
	FormalityFormal     = "formal"
	FormalitySemiFormal = "semi-formal"
	FormalityCasual     = "casual"
)

// IntRange is an inclusive (Min, Max) expectation for a structural attribute.
type IntRange struct {
	Min int
	Max int
}

// Contains reports whether v falls inside the range.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DomainProfile describes one business domain's keyword taxonomy and
// structural template. Profiles are configuration data, not logic.
type DomainProfile struct {
	Name              string
	DisplayName       string
	PrimaryKeywords   []string
	SecondaryKeywords []string
	SenderPatterns    []string
	SubjectPatterns   []string
	TypicalBodyLength IntRange
	HasGreeting       bool
	HasSignature      bool
	HasDisclaimer     bool
	URLExpected       bool
	FormalityLevel    string
	TypicalParagraphs IntRange
}

// compiledProfile is a DomainProfile with its regular expressions compiled
// and its registration index recorded for deterministic tie-breaking.
type compiledProfile struct {
	DomainProfile
	index           int
	senderPatterns  []*regexp.Regexp
	subjectPatterns []*regexp.Regexp
}

// Registry is an immutable, ordered collection of domain profiles. The
// registration order breaks scoring ties, so it is part of the contract.
// Registries are constructed once and injected; there is no global table.
type Registry struct {
	profiles []*compiledProfile
	names    []string
}

// NewRegistry compiles and validates the given profiles. Names must be
// unique, range attributes must satisfy min <= max, the formality level must
// be one of the recognized values and every pattern must compile.
func NewRegistry(profiles ...DomainProfile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("registry requires at least one domain profile")
	}

	r := &Registry{
		profiles: make([]*compiledProfile, 0, len(profiles)),
		names:    make([]string, 0, len(profiles)),
	}
	seen := make(map[string]bool, len(profiles))

	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d: name must not be empty", i)
		}
		if p.Name == DomainUnsure {
			return nil, fmt.Errorf("profile %q: name is reserved", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("profile %q: duplicate domain name", p.Name)
		}
		seen[p.Name] = true

		if p.TypicalBodyLength.Min > p.TypicalBodyLength.Max {
			return nil, fmt.Errorf("profile %q: body length range min > max", p.Name)
		}
		if p.TypicalParagraphs.Min > p.TypicalParagraphs.Max {
			return nil, fmt.Errorf("profile %q: paragraph range min > max", p.Name)
		}

		switch p.FormalityLevel {
		case FormalityFormal, FormalitySemiFormal, FormalityCasual:
		default:
			return nil, fmt.Errorf("profile %q: unknown formality level %q", p.Name, p.FormalityLevel)
		}

		cp := &compiledProfile{DomainProfile: p, index: i}

		// Sender patterns are anchored at the start of the address, subject
		// patterns are searched anywhere; both are case-insensitive.
		for _, pat := range p.SenderPatterns {
			re, err := regexp.Compile("^(?i:" + pat + ")")
			if err != nil {
				return nil, fmt.Errorf("profile %q: invalid sender pattern %q: %w", p.Name, pat, err)
			}
			cp.senderPatterns = append(cp.senderPatterns, re)
		}
		for _, pat := range p.SubjectPatterns {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				return nil, fmt.Errorf("profile %q: invalid subject pattern %q: %w", p.Name, pat, err)
			}
			cp.subjectPatterns = append(cp.subjectPatterns, re)
		}

		r.profiles = append(r.profiles, cp)
		r.names = append(r.names, p.Name)
	}

	return r, nil
}

// Names returns the domain names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}

// bestDomain picks the highest-scoring domain from a raw score map, breaking
// ties by registration order. It returns the winner and its raw score.
func (r *Registry) bestDomain(raw map[string]float64) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, p := range r.profiles {
		score := raw[p.Name]
		if best == "" || score > bestScore {
			best = p.Name
			bestScore = score
		}
	}
	return best, bestScore
}
