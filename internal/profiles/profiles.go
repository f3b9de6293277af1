// Package profiles carries the built-in domain profile data and the
// config-driven profile loader. Profile tables are configuration, not logic:
// the classification engine only ever sees a compiled core.Registry.
package profiles

import (
	"fmt"

	"github.com/montimage/email-domain-classifier/internal/config"
	"github.com/montimage/email-domain-classifier/internal/core"
)

// profileSpec mirrors the YAML shape of a domain profile.
type profileSpec struct {
	Name              string   `mapstructure:"name"`
	DisplayName       string   `mapstructure:"display_name"`
	PrimaryKeywords   []string `mapstructure:"primary_keywords"`
	SecondaryKeywords []string `mapstructure:"secondary_keywords"`
	SenderPatterns    []string `mapstructure:"sender_patterns"`
	SubjectPatterns   []string `mapstructure:"subject_patterns"`
	BodyLengthMin     int      `mapstructure:"body_length_min"`
	BodyLengthMax     int      `mapstructure:"body_length_max"`
	HasGreeting       bool     `mapstructure:"has_greeting"`
	HasSignature      bool     `mapstructure:"has_signature"`
	HasDisclaimer     bool     `mapstructure:"has_disclaimer"`
	URLExpected       bool     `mapstructure:"url_expected"`
	FormalityLevel    string   `mapstructure:"formality_level"`
	ParagraphsMin     int      `mapstructure:"paragraphs_min"`
	ParagraphsMax     int      `mapstructure:"paragraphs_max"`
}

// Load builds a registry from the "profiles" config section when present,
// otherwise from the built-in defaults.
func Load(cfg *config.Config) (*core.Registry, error) {
	var specs []profileSpec
	if err := cfg.GetViper().UnmarshalKey("profiles", &specs); err != nil {
		return nil, fmt.Errorf("failed to parse profiles config: %w", err)
	}
	if len(specs) == 0 {
		return core.NewRegistry(Defaults()...)
	}

	domains := make([]core.DomainProfile, 0, len(specs))
	for _, s := range specs {
		domains = append(domains, core.DomainProfile{
			Name:              s.Name,
			DisplayName:       s.DisplayName,
			PrimaryKeywords:   s.PrimaryKeywords,
			SecondaryKeywords: s.SecondaryKeywords,
			SenderPatterns:    s.SenderPatterns,
			SubjectPatterns:   s.SubjectPatterns,
			TypicalBodyLength: core.IntRange{Min: s.BodyLengthMin, Max: s.BodyLengthMax},
			HasGreeting:       s.HasGreeting,
			HasSignature:      s.HasSignature,
			HasDisclaimer:     s.HasDisclaimer,
			URLExpected:       s.URLExpected,
			FormalityLevel:    s.FormalityLevel,
			TypicalParagraphs: core.IntRange{Min: s.ParagraphsMin, Max: s.ParagraphsMax},
		})
	}
	return core.NewRegistry(domains...)
}

// Defaults returns the built-in profiles for the ten standard business
// domains. Keyword sets and structural expectations are tuning data;
// adjust them per dataset rather than treating them as fixed.
func Defaults() []core.DomainProfile {
	return []core.DomainProfile{
		{
			Name:              "finance",
			DisplayName:       "Finance & Banking",
			PrimaryKeywords:   []string{"statement", "account", "payment", "transaction", "balance", "invoice", "credit card", "wire transfer"},
			SecondaryKeywords: []string{"bank", "deposit", "withdrawal", "interest", "loan", "billing", "due date"},
			SenderPatterns:    []string{`.*@.*bank.*\..*`, `(alerts|statements|billing)@.*`},
			SubjectPatterns:   []string{`(account|payment|statement|transaction)`, `(balance|invoice)\s+(alert|ready|due)`},
			TypicalBodyLength: core.IntRange{Min: 100, Max: 2000},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     true,
			URLExpected:       false,
			FormalityLevel:    core.FormalityFormal,
			TypicalParagraphs: core.IntRange{Min: 2, Max: 6},
		},
		{
			Name:              "technology",
			DisplayName:       "Technology & Software",
			PrimaryKeywords:   []string{"password", "login", "account security", "subscription", "api", "verification code", "two-factor"},
			SecondaryKeywords: []string{"update", "server", "cloud", "software", "device", "settings", "reset"},
			SenderPatterns:    []string{`(no.?reply|security|support)@.*`, `.*@.*(tech|cloud|app).*\..*`},
			SubjectPatterns:   []string{`(password|security|verification)`, `(sign.?in|login)\s+(alert|attempt)`},
			TypicalBodyLength: core.IntRange{Min: 50, Max: 1500},
			HasGreeting:       false,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    core.FormalitySemiFormal,
			TypicalParagraphs: core.IntRange{Min: 1, Max: 4},
		},
		{
			Name:              "retail",
			DisplayName:       "Retail & E-commerce",
			PrimaryKeywords:   []string{"order", "purchase", "receipt", "refund", "discount", "sale", "cart"},
			SecondaryKeywords: []string{"item", "product", "store", "coupon", "offer", "checkout", "return"},
			SenderPatterns:    []string{`(orders|shop|store|sales)@.*`, `no.?reply@.*(shop|store).*`},
			SubjectPatterns:   []string{`order\s+(confirmation|shipped|received)`, `(sale|discount|offer|deal)`},
			TypicalBodyLength: core.IntRange{Min: 100, Max: 2500},
			HasGreeting:       true,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    core.FormalityCasual,
			TypicalParagraphs: core.IntRange{Min: 1, Max: 5},
		},
		{
			Name:              "logistics",
			DisplayName:       "Logistics & Shipping",
			PrimaryKeywords:   []string{"shipment", "tracking", "delivery", "package", "courier", "customs"},
			SecondaryKeywords: []string{"carrier", "freight", "dispatch", "warehouse", "eta", "label"},
			SenderPatterns:    []string{`(tracking|shipping|delivery)@.*`, `.*@.*(express|logistics|courier).*\..*`},
			SubjectPatterns:   []string{`(tracking|shipment|delivery)\s+(number|update|status)`, `package\s+(delivered|delayed|out for delivery)`},
			TypicalBodyLength: core.IntRange{Min: 50, Max: 1200},
			HasGreeting:       false,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    core.FormalitySemiFormal,
			TypicalParagraphs: core.IntRange{Min: 1, Max: 3},
		},
		{
			Name:              "healthcare",
			DisplayName:       "Healthcare & Medical",
			PrimaryKeywords:   []string{"appointment", "prescription", "lab results", "patient", "insurance claim", "pharmacy"},
			SecondaryKeywords: []string{"doctor", "clinic", "medical", "health", "treatment", "copay", "referral"},
			SenderPatterns:    []string{`(appointments|pharmacy|records)@.*`, `.*@.*(health|medical|clinic).*\..*`},
			SubjectPatterns:   []string{`appointment\s+(reminder|confirmation|scheduled)`, `(prescription|lab|test)\s+(ready|results)`},
			TypicalBodyLength: core.IntRange{Min: 150, Max: 2000},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     true,
			URLExpected:       false,
			FormalityLevel:    core.FormalityFormal,
			TypicalParagraphs: core.IntRange{Min: 2, Max: 6},
		},
		{
			Name:              "government",
			DisplayName:       "Government & Regulatory",
			PrimaryKeywords:   []string{"tax", "irs", "compliance", "permit", "license", "regulation", "filing"},
			SecondaryKeywords: []string{"federal", "state", "agency", "form", "deadline", "notice", "official"},
			SenderPatterns:    []string{`.*@.*\.gov`, `(notices|filings)@.*`},
			SubjectPatterns:   []string{`(tax|filing)\s+(notice|deadline|return)`, `official\s+notice`},
			TypicalBodyLength: core.IntRange{Min: 200, Max: 3000},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     true,
			URLExpected:       false,
			FormalityLevel:    core.FormalityFormal,
			TypicalParagraphs: core.IntRange{Min: 3, Max: 8},
		},
		{
			Name:              "hr",
			DisplayName:       "Human Resources",
			PrimaryKeywords:   []string{"payroll", "benefits", "pto", "performance review", "onboarding", "timesheet"},
			SecondaryKeywords: []string{"employee", "manager", "policy", "holiday", "enrollment", "salary"},
			SenderPatterns:    []string{`(hr|payroll|benefits|people)@.*`},
			SubjectPatterns:   []string{`(payroll|timesheet|benefits)\s+(reminder|update|enrollment)`, `performance\s+review`},
			TypicalBodyLength: core.IntRange{Min: 100, Max: 2000},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     false,
			URLExpected:       false,
			FormalityLevel:    core.FormalitySemiFormal,
			TypicalParagraphs: core.IntRange{Min: 2, Max: 5},
		},
		{
			Name:              "telecommunications",
			DisplayName:       "Telecommunications",
			PrimaryKeywords:   []string{"data plan", "mobile", "wireless", "minutes", "roaming", "sim"},
			SecondaryKeywords: []string{"carrier", "phone", "upgrade", "coverage", "usage", "plan"},
			SenderPatterns:    []string{`.*@.*(mobile|wireless|telecom).*\..*`, `(billing|account)@.*(cell|tel).*`},
			SubjectPatterns:   []string{`(bill|plan|data)\s+(ready|usage|alert)`, `device\s+upgrade`},
			TypicalBodyLength: core.IntRange{Min: 100, Max: 1500},
			HasGreeting:       true,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    core.FormalitySemiFormal,
			TypicalParagraphs: core.IntRange{Min: 1, Max: 4},
		},
		{
			Name:              "social_media",
			DisplayName:       "Social Media",
			PrimaryKeywords:   []string{"friend request", "followed you", "mentioned you", "new message", "notification", "tagged"},
			SecondaryKeywords: []string{"profile", "post", "comment", "like", "follower", "community"},
			SenderPatterns:    []string{`(notifications?|updates)@.*`, `no.?reply@.*(social|network).*`},
			SubjectPatterns:   []string{`(new|you have)\s+.*(message|notification|request)`, `(mentioned|tagged)\s+you`},
			TypicalBodyLength: core.IntRange{Min: 30, Max: 800},
			HasGreeting:       false,
			HasSignature:      false,
			HasDisclaimer:     false,
			URLExpected:       true,
			FormalityLevel:    core.FormalityCasual,
			TypicalParagraphs: core.IntRange{Min: 1, Max: 3},
		},
		{
			Name:              "education",
			DisplayName:       "Education & Academia",
			PrimaryKeywords:   []string{"course", "enrollment", "tuition", "grades", "transcript", "semester", "financial aid"},
			SecondaryKeywords: []string{"university", "college", "student", "professor", "campus", "assignment", "exam"},
			SenderPatterns:    []string{`.*@.*\.edu`, `(registrar|admissions|bursar)@.*`},
			SubjectPatterns:   []string{`(course|class)\s+(registration|enrollment|schedule)`, `(tuition|grades|transcript)`},
			TypicalBodyLength: core.IntRange{Min: 150, Max: 2500},
			HasGreeting:       true,
			HasSignature:      true,
			HasDisclaimer:     false,
			URLExpected:       false,
			FormalityLevel:    core.FormalityFormal,
			TypicalParagraphs: core.IntRange{Min: 2, Max: 6},
		},
	}
}
