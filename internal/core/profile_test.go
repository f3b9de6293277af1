package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalProfile(name string) DomainProfile {
	return DomainProfile{
		Name:           name,
		FormalityLevel: FormalitySemiFormal,
	}
}

func TestNewRegistryRejectsEmpty(t *testing.T) {
	_, err := NewRegistry()
	assert.Error(t, err)
}

func TestNewRegistryRejectsReservedName(t *testing.T) {
	_, err := NewRegistry(minimalProfile(DomainUnsure))
	assert.ErrorContains(t, err, "reserved")
}

func TestNewRegistryRejectsDuplicateName(t *testing.T) {
	_, err := NewRegistry(minimalProfile("finance"), minimalProfile("finance"))
	assert.ErrorContains(t, err, "duplicate")
}

func TestNewRegistryRejectsInvertedRange(t *testing.T) {
	p := minimalProfile("finance")
	p.TypicalBodyLength = IntRange{Min: 100, Max: 10}
	_, err := NewRegistry(p)
	assert.ErrorContains(t, err, "min > max")
}

func TestNewRegistryRejectsUnknownFormality(t *testing.T) {
	p := minimalProfile("finance")
	p.FormalityLevel = "very formal"
	_, err := NewRegistry(p)
	assert.ErrorContains(t, err, "formality")
}

func TestNewRegistryRejectsBadPattern(t *testing.T) {
	p := minimalProfile("finance")
	p.SenderPatterns = []string{"("}
	_, err := NewRegistry(p)
	assert.ErrorContains(t, err, "sender pattern")
}

func TestRegistryNamesInRegistrationOrder(t *testing.T) {
	r, err := NewRegistry(minimalProfile("b"), minimalProfile("a"), minimalProfile("c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, r.Names())
	assert.Equal(t, 3, r.Len())
}

func TestBestDomainTieBreaksByRegistrationOrder(t *testing.T) {
	r, err := NewRegistry(minimalProfile("b"), minimalProfile("a"))
	require.NoError(t, err)

	best, score := r.bestDomain(map[string]float64{"a": 2.0, "b": 2.0})
	assert.Equal(t, "b", best)
	assert.Equal(t, 2.0, score)

	best, _ = r.bestDomain(map[string]float64{"a": 3.0, "b": 2.0})
	assert.Equal(t, "a", best)
}

func TestSenderPatternsAnchored(t *testing.T) {
	p := minimalProfile("finance")
	p.SenderPatterns = []string{`(alerts|billing)@.*`}
	r, err := NewRegistry(p)
	require.NoError(t, err)

	scorer := NewKeywordScorer(r)

	// Anchored at the start: a sender merely containing the pattern later
	// in the address does not match.
	matched := scorer.Score(&EmailRecord{Sender: "alerts@example.com"})
	unmatched := scorer.Score(&EmailRecord{Sender: "user.alerts@example.com"})

	assert.Equal(t, "finance", matched.Domain)
	assert.Empty(t, unmatched.Domain)
}

func TestIntRangeContains(t *testing.T) {
	r := IntRange{Min: 1, Max: 3}
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(0))
	assert.False(t, r.Contains(4))
}
