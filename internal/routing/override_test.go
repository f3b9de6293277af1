package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLookupMatchesSenderMailDomain(t *testing.T) {
	o := NewOverrides(map[string]string{
		"Clinic.Example.ORG": "Healthcare",
		"courier.example":    "logistics",
	}, zap.NewNop())

	domain, ok := o.Lookup("desk@clinic.example.org")
	assert.True(t, ok)
	assert.Equal(t, "healthcare", domain)

	domain, ok = o.Lookup("TRACKING@Courier.Example")
	assert.True(t, ok)
	assert.Equal(t, "logistics", domain)

	assert.Equal(t, 2, o.Len())
}

func TestLookupDisplayNameAddress(t *testing.T) {
	o := NewOverrides(map[string]string{"clinic.example.org": "healthcare"}, zap.NewNop())

	domain, ok := o.Lookup("Front Desk <desk@clinic.example.org>")
	assert.True(t, ok)
	assert.Equal(t, "healthcare", domain)
}

func TestLookupNoMatch(t *testing.T) {
	o := NewOverrides(map[string]string{"clinic.example.org": "healthcare"}, zap.NewNop())

	_, ok := o.Lookup("user@elsewhere.com")
	assert.False(t, ok)

	_, ok = o.Lookup("not-an-address")
	assert.False(t, ok)
}

func TestLookupEmptyTable(t *testing.T) {
	o := NewOverrides(nil, zap.NewNop())
	_, ok := o.Lookup("user@anywhere.com")
	assert.False(t, ok)
	assert.Zero(t, o.Len())
}
