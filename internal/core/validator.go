package core

import (
	"regexp"
	"strings"
)

// Validation error codes, one per failed check. They appear verbatim in the
// error_reason column of the invalid sink and in the per-code statistics.
const (
	ErrCodeEmptySender           = "empty_sender"
	ErrCodeInvalidSenderFormat   = "invalid_sender_format"
	ErrCodeEmptyReceiver         = "empty_receiver"
	ErrCodeInvalidReceiverFormat = "invalid_receiver_format"
	ErrCodeEmptySubject          = "empty_subject"
	ErrCodeEmptyBody             = "empty_body"
)

// ValidationError reports every check a record failed. It is recoverable:
// the processor routes the record to the invalid sink and moves on, unless
// strict validation is enabled.
type ValidationError struct {
	Codes []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Codes, "|")
}

var (
	// Simplified RFC 5322 address shape: local-part "@" domain-with-dot.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// "Display Name <email@domain.com>" form, quoted or not.
	emailWithNamePattern = regexp.MustCompile(`^[^<]*<[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}>$`)
)

// Validator checks a record's structural validity before classification:
// well-formed sender and receiver addresses, non-empty subject and body.
// It is a pure function of the record and decides nothing about routing.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidAddress reports whether the address matches a permissive email shape,
// accepting both "user@example.com" and "Name <user@example.com>".
func (v *Validator) ValidAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}
	return emailPattern.MatchString(addr) || emailWithNamePattern.MatchString(addr)
}

// Validate checks the record and returns nil when it is valid, or a
// *ValidationError listing every failed check.
func (v *Validator) Validate(record *EmailRecord) error {
	var codes []string

	sender := strings.TrimSpace(record.Sender)
	if sender == "" {
		codes = append(codes, ErrCodeEmptySender)
	} else if !v.ValidAddress(sender) {
		codes = append(codes, ErrCodeInvalidSenderFormat)
	}

	receiver := strings.TrimSpace(record.Receiver)
	if receiver == "" {
		codes = append(codes, ErrCodeEmptyReceiver)
	} else if !v.ValidAddress(receiver) {
		codes = append(codes, ErrCodeInvalidReceiverFormat)
	}

	if strings.TrimSpace(record.Subject) == "" {
		codes = append(codes, ErrCodeEmptySubject)
	}
	if strings.TrimSpace(record.Body) == "" {
		codes = append(codes, ErrCodeEmptyBody)
	}

	if len(codes) > 0 {
		return &ValidationError{Codes: codes}
	}
	return nil
}
