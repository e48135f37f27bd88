package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func validForm() FormData {
	return FormData{
		Name:    "Jane Doe",
		Email:   "jane@acme-law.com",
		Company: strPtr("Acme Law"),
		Message: "We would like a quote for a new website.",
	}
}

func TestValidate_Success(t *testing.T) {
	data := validForm()
	data.Phone = strPtr("  +1 (555) 123-4567  ")
	data.Website = strPtr("")
	data.HearAboutUs = strPtr("Referral")

	result := Validate(data)

	require.True(t, result.Success)
	assert.Empty(t, result.FieldErrors)
	require.NotNil(t, result.Data)
	assert.Equal(t, "+1 (555) 123-4567", *result.Data.Phone)
	assert.Equal(t, "Jane Doe", result.Data.Name)

	// the caller's copy is not modified
	assert.Equal(t, "  +1 (555) 123-4567  ", *data.Phone)
}

func TestValidate_OptionalFieldsOmitted(t *testing.T) {
	result := Validate(FormData{
		Name:    "Jo",
		Email:   "jo@example.com",
		Message: "0123456789",
	})

	assert.True(t, result.Success)
}

func TestValidate_BlockedDomain(t *testing.T) {
	for _, email := range []string{
		"lead@mailinator.com",
		"lead@GuerrillaMail.com",
		"lead@tempmail.com",
		"lead@10minutemail.com",
		"lead@yopmail.com",
	} {
		t.Run(email, func(t *testing.T) {
			data := validForm()
			data.Email = email

			result := Validate(data)

			assert.False(t, result.Success)
			assert.Equal(t, []string{MsgBusinessEmail}, result.FieldErrors[FieldEmail])
		})
	}
}

func TestValidate_BlockedDomainWithOtherErrors(t *testing.T) {
	result := Validate(FormData{Email: "lead@mailinator.com"})

	assert.False(t, result.Success)
	assert.Contains(t, result.FieldErrors[FieldEmail], MsgBusinessEmail)
	assert.Contains(t, result.FieldErrors[FieldName], MsgNameTooShort)
	assert.Contains(t, result.FieldErrors[FieldMessage], MsgMessageTooShort)
}

func TestValidate_Phone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected []string
	}{
		{name: "valid international", phone: "+44 20 7946 0958"},
		{name: "valid dotted", phone: "555.123.4567"},
		{name: "letters", phone: "555-123-4567 ext", expected: []string{MsgPhoneInvalidChars}},
		{name: "too few digits", phone: "(555) 12-3", expected: []string{MsgPhoneTooFewDigits}},
		{name: "letters and few digits", phone: "call 555", expected: []string{MsgPhoneInvalidChars, MsgPhoneTooFewDigits}},
		{name: "blank", phone: "   ", expected: []string{MsgPhoneRequired, MsgPhoneInvalidChars, MsgPhoneTooFewDigits}},
		{name: "too long", phone: strings.Repeat("1", 51), expected: []string{MsgPhoneTooLong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validForm()
			data.Phone = strPtr(tt.phone)

			result := Validate(data)

			if tt.expected == nil {
				assert.True(t, result.Success, "unexpected errors: %v", result.FieldErrors)
				return
			}
			assert.False(t, result.Success)
			assert.Equal(t, tt.expected, result.FieldErrors[FieldPhone])
		})
	}
}

func TestValidate_Honeypot(t *testing.T) {
	data := validForm()
	data.Website = strPtr("http://spam.example")

	result := Validate(data)

	assert.False(t, result.Success)
	assert.Equal(t, []string{MsgHoneypotNotEmpty}, result.FieldErrors[FieldWebsite])
	assert.True(t, HoneypotTriggered(data))
}

func TestValidate_LengthBounds(t *testing.T) {
	data := validForm()
	data.Name = strings.Repeat("n", 101)
	data.Message = strings.Repeat("m", 5001)
	data.Company = strPtr(strings.Repeat("c", 201))
	data.HearAboutUs = strPtr(strings.Repeat("h", 101))
	data.Email = strings.Repeat("e", 250) + "@acme.com"

	result := Validate(data)

	assert.False(t, result.Success)
	assert.Equal(t, []string{MsgNameTooLong}, result.FieldErrors[FieldName])
	assert.Equal(t, []string{MsgMessageTooLong}, result.FieldErrors[FieldMessage])
	assert.Equal(t, []string{MsgCompanyTooLong}, result.FieldErrors[FieldCompany])
	assert.Equal(t, []string{MsgHearAboutUsTooLong}, result.FieldErrors[FieldHearAboutUs])
	assert.Contains(t, result.FieldErrors[FieldEmail], MsgEmailTooLong)
	assert.Equal(t, []string{FieldCompany, FieldEmail, FieldHearAboutUs, FieldMessage, FieldName}, result.FieldErrors.Fields())
}

func TestValidate_InvalidEmail(t *testing.T) {
	data := validForm()
	data.Email = "not-an-email"

	result := Validate(data)

	assert.False(t, result.Success)
	assert.Equal(t, []string{MsgInvalidEmail}, result.FieldErrors[FieldEmail])
}

func TestHasMinimumDigits(t *testing.T) {
	assert.True(t, HasMinimumDigits("1234567"))
	assert.True(t, HasMinimumDigits("+1 (2) 3-4.5 67"))
	assert.False(t, HasMinimumDigits("123456"))
	assert.False(t, HasMinimumDigits("(12) 34-56"))
	assert.False(t, HasMinimumDigits(""))
}

func TestIsBlockedDomain(t *testing.T) {
	assert.True(t, IsBlockedDomain("a@YOPMAIL.COM"))
	assert.False(t, IsBlockedDomain("a@acme.com"))
	assert.False(t, IsBlockedDomain("no-at-sign"))
	assert.False(t, IsBlockedDomain("trailing@"))
}
