package routing

import (
	"strings"

	"go.uber.org/zap"
)

// Overrides routes records from configured sender mail domains directly to a
// business domain, bypassing classification. The map is empty by default,
// in which case every record goes through the classifier.
type Overrides struct {
	domains map[string]string
	logger  *zap.Logger
}

// NewOverrides creates an override table. Keys are sender mail domains,
// values are business domain names; both are normalized to lower case.
func NewOverrides(domains map[string]string, logger *zap.Logger) *Overrides {
	normalized := make(map[string]string, len(domains))
	for mailDomain, target := range domains {
		normalized[strings.ToLower(strings.TrimSpace(mailDomain))] = strings.ToLower(strings.TrimSpace(target))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized routing overrides", zap.Int("count", len(normalized)))
	}

	return &Overrides{
		domains: normalized,
		logger:  logger,
	}
}

// Lookup returns the business domain configured for the sender's mail
// domain, if any.
func (o *Overrides) Lookup(sender string) (string, bool) {
	if len(o.domains) == 0 {
		return "", false
	}

	// Extract domain from the email address
	parts := strings.Split(sender, "@")
	if len(parts) != 2 {
		return "", false
	}
	mailDomain := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(parts[1]), ">"))

	target, ok := o.domains[mailDomain]
	if ok && o.logger != nil {
		o.logger.Debug("Sender domain has a routing override",
			zap.String("mail_domain", mailDomain),
			zap.String("domain", target))
	}
	return target, ok
}

// Len returns the number of configured overrides.
func (o *Overrides) Len() int {
	return len(o.domains)
}
