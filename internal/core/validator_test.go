package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *EmailRecord {
	return &EmailRecord{
		Sender:   "alerts@bank.example.com",
		Receiver: "user@example.com",
		Subject:  "Your monthly statement",
		Body:     "Your account statement is ready.",
	}
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(validRecord()))
}

func TestValidateAcceptsDisplayNameAddress(t *testing.T) {
	v := NewValidator()
	record := validRecord()
	record.Sender = "Acme Billing <billing@acme.com>"
	assert.NoError(t, v.Validate(record))
}

func TestValidateEmptySender(t *testing.T) {
	v := NewValidator()
	record := validRecord()
	record.Sender = "   "

	err := v.Validate(record)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{ErrCodeEmptySender}, verr.Codes)
}

func TestValidateMalformedAddresses(t *testing.T) {
	v := NewValidator()

	for _, sender := range []string{"not-an-email", "missing@domain", "@example.com", "user@"} {
		record := validRecord()
		record.Sender = sender

		err := v.Validate(record)
		require.Error(t, err, "sender %q should be rejected", sender)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Codes, ErrCodeInvalidSenderFormat)
	}
}

func TestValidateCollectsEveryFailure(t *testing.T) {
	v := NewValidator()
	record := &EmailRecord{
		Sender:   "bad sender",
		Receiver: "",
		Subject:  " ",
		Body:     "",
	}

	err := v.Validate(record)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		ErrCodeInvalidSenderFormat,
		ErrCodeEmptyReceiver,
		ErrCodeEmptySubject,
		ErrCodeEmptyBody,
	}, verr.Codes)
	assert.Equal(t, "invalid_sender_format|empty_receiver|empty_subject|empty_body", verr.Error())
}

func TestValidAddressWhitespaceOnly(t *testing.T) {
	v := NewValidator()
	assert.False(t, v.ValidAddress("  "))
	assert.True(t, v.ValidAddress(" user@example.com "))
}
