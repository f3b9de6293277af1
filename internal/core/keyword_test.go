package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(
		DomainProfile{
			Name:              "finance",
			DisplayName:       "Finance & Banking",
			PrimaryKeywords:   []string{"statement", "payment", "account"},
			SecondaryKeywords: []string{"bank", "balance"},
			SenderPatterns:    []string{`.*@.*bank.*`},
			SubjectPatterns:   []string{`(account|payment|statement)`},
			TypicalBodyLength: IntRange{Min: 100, Max: 2000},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     true,
			URLExpected:       false,
			FormalityLevel:    FormalityFormal,
			TypicalParagraphs: IntRange{Min: 2, Max: 5},
		},
		DomainProfile{
			Name:              "technology",
			DisplayName:       "Technology",
			PrimaryKeywords:   []string{"server", "deploy", "login"},
			SecondaryKeywords: []string{"update", "password"},
			SenderPatterns:    []string{`(noreply|alerts)@.*tech.*`},
			SubjectPatterns:   []string{`(alert|login|security)`},
			TypicalBodyLength: IntRange{Min: 50, Max: 1000},
			HasGreeting:       false,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    FormalitySemiFormal,
			TypicalParagraphs: IntRange{Min: 1, Max: 3},
		},
	)
	require.NoError(t, err)
	return r
}

func TestKeywordScoreSenderPatternAlone(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	// Sender pattern is strong enough to clear both gates even with an
	// empty body.
	score := scorer.Score(&EmailRecord{
		Sender:  "statements@mybank.com",
		Subject: "hello",
	})

	assert.Equal(t, "finance", score.Domain)
	assert.InDelta(t, 1.0, score.Confidence, 1e-9)
	assert.InDelta(t, 1.0, score.Scores["finance"], 1e-9)
	assert.Zero(t, score.Scores["technology"])
}

func TestKeywordScoreSubjectSignals(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	score := scorer.Score(&EmailRecord{
		Sender:  "someone@example.com",
		Subject: "Your account statement is ready",
	})

	// Subject pattern plus two primary keywords in the subject.
	assert.Equal(t, "finance", score.Domain)
	assert.InDelta(t, 1.0, score.Confidence, 1e-9)
}

func TestKeywordScoreNoSignals(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	score := scorer.Score(&EmailRecord{
		Sender:  "someone@example.com",
		Subject: "zzz qqq",
		Body:    "qqq www eee",
	})

	assert.Empty(t, score.Domain)
	assert.Zero(t, score.Confidence)
}

func TestKeywordScoreBelowRawFloor(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	// One secondary keyword in a 200-word body: density 0.5%, weighted
	// score 0.75, under the raw floor even though it is the only signal.
	body := "bank"
	for i := 0; i < 199; i++ {
		body += " filler"
	}
	score := scorer.Score(&EmailRecord{
		Sender:  "someone@example.com",
		Subject: "hello there",
		Body:    body,
	})

	assert.Empty(t, score.Domain)
	assert.Positive(t, score.Scores["finance"])
}

func TestKeywordScoreDensityCapped(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	// A body that is nothing but primary keywords hits the density cap
	// rather than growing without bound.
	spam := &EmailRecord{
		Sender:  "someone@example.com",
		Subject: "hello",
		Body:    "statement payment account statement payment account",
	}
	normal := &EmailRecord{
		Sender:  "someone@example.com",
		Subject: "hello",
		Body:    "your statement and payment for the account are attached below thanks",
	}

	capped := scorer.Score(spam)
	regular := scorer.Score(normal)

	assert.Equal(t, "finance", capped.Domain)
	assert.Equal(t, "finance", regular.Domain)
	// Both are fully normalized against a zero technology score.
	assert.InDelta(t, 1.0, capped.Confidence, 1e-9)
	assert.InDelta(t, 1.0, regular.Confidence, 1e-9)
}

func TestKeywordScoresNormalizedToSum(t *testing.T) {
	scorer := NewKeywordScorer(testRegistry(t))

	score := scorer.Score(&EmailRecord{
		Sender:  "statements@mybank.com",
		Subject: "security alert for your account",
		Body:    "please login and update your password to review the payment",
	})

	total := 0.0
	for _, v := range score.Scores {
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
