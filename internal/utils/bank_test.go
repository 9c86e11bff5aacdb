package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIFSC(t *testing.T) {
	valid := []string{"SBIN0001234", "HDFC0000123", "ICIC0006789", "UTIB0ABC123"}
	for _, code := range valid {
		assert.True(t, IsValidIFSC(code), "expected %s to be valid", code)
	}

	invalid := []string{
		"",
		"SBIN001234",    // too short
		"SBIN00012345",  // too long
		"SBIN1001234",   // fifth character must be zero
		"sbin0001234",   // lowercase
		"1BIN0001234",   // bank code must be letters
		"SBIN0_01234",   // no symbols
	}
	for _, code := range invalid {
		assert.False(t, IsValidIFSC(code), "expected %s to be invalid", code)
	}
}

func TestBankNameFromIFSC(t *testing.T) {
	assert.Equal(t, "State Bank of India", BankNameFromIFSC("SBIN0001234"))
	assert.Equal(t, "HDFC Bank", BankNameFromIFSC("HDFC0000123"))
	assert.Equal(t, "", BankNameFromIFSC("ZZZZ0001234"))
	assert.Equal(t, "", BankNameFromIFSC("invalid"))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Name   string `validate:"required"`
		Method string `validate:"required,oneof=cash upi"`
	}

	assert.NoError(t, ValidateStruct(&req{Name: "a", Method: "cash"}))

	err := ValidateStruct(&req{Method: "card"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Method must be one of")
}
