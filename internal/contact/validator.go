package contact

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear in the JSON payload and in FieldErrors
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldCompany     = "company"
	FieldPhone       = "phone"
	FieldWebsite     = "website"
	FieldMessage     = "message"
	FieldHearAboutUs = "hearAboutUs"
)

const (
	MsgNameTooShort       = "Name must be at least 2 characters"
	MsgNameTooLong        = "Name must not exceed 100 characters"
	MsgInvalidEmail       = "Invalid email address"
	MsgEmailTooLong       = "Email must not exceed 254 characters"
	MsgBusinessEmail      = "Please use a business email address"
	MsgCompanyTooLong     = "Company must not exceed 200 characters"
	MsgPhoneRequired      = "Phone number is required"
	MsgPhoneTooLong       = "Phone number must not exceed 50 characters"
	MsgPhoneInvalidChars  = "Phone number contains invalid characters"
	MsgPhoneTooFewDigits  = "Phone number must include at least 7 digits"
	MsgHoneypotNotEmpty   = "Honeypot must be empty"
	MsgMessageTooShort    = "Message must be at least 10 characters"
	MsgMessageTooLong     = "Message must not exceed 5000 characters"
	MsgHearAboutUsTooLong = "Hear about us must not exceed 100 characters"
)

const (
	tagBusinessEmail = "business_email"
	tagPhoneChars    = "phone_chars"
	tagPhoneDigits   = "phone_digits"

	minimumPhoneDigits = 7
)

var blockedEmailDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"tempmail.com":      {},
	"10minutemail.com":  {},
	"yopmail.com":       {},
}

var (
	phonePattern = regexp.MustCompile(`^[+]?[\d\s().-]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// rule pairs a validator tag with the message reported when it fails
type rule struct {
	tag     string
	message string
}

// Rules run in order and never short-circuit, so one field may collect several messages.
var (
	nameRules = []rule{
		{"min=2", MsgNameTooShort},
		{"max=100", MsgNameTooLong},
	}
	emailRules = []rule{
		{"email", MsgInvalidEmail},
		{"max=254", MsgEmailTooLong},
		{tagBusinessEmail, MsgBusinessEmail},
	}
	companyRules = []rule{
		{"max=200", MsgCompanyTooLong},
	}
	phoneRules = []rule{
		{"min=1", MsgPhoneRequired},
		{"max=50", MsgPhoneTooLong},
		{tagPhoneChars, MsgPhoneInvalidChars},
		{tagPhoneDigits, MsgPhoneTooFewDigits},
	}
	websiteRules = []rule{
		{"max=0", MsgHoneypotNotEmpty},
	}
	messageRules = []rule{
		{"min=10", MsgMessageTooShort},
		{"max=5000", MsgMessageTooLong},
	}
	hearAboutUsRules = []rule{
		{"max=100", MsgHearAboutUsTooLong},
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation(tagBusinessEmail, func(fl validator.FieldLevel) bool {
		return !IsBlockedDomain(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhoneChars, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhoneDigits, func(fl validator.FieldLevel) bool {
		return HasMinimumDigits(fl.Field().String())
	})

	return v
}

// Validate checks a submission against every field rule and reports all failures at once.
// On success the returned data is normalized (the phone number is trimmed).
func Validate(data FormData) Result {
	errs := FieldErrors{}
	normalized := data

	check(errs, FieldName, data.Name, nameRules)
	check(errs, FieldEmail, data.Email, emailRules)
	check(errs, FieldMessage, data.Message, messageRules)

	if data.Company != nil {
		check(errs, FieldCompany, *data.Company, companyRules)
	}
	if data.Phone != nil {
		phone := strings.TrimSpace(*data.Phone)
		normalized.Phone = &phone
		check(errs, FieldPhone, phone, phoneRules)
	}
	if data.Website != nil {
		check(errs, FieldWebsite, *data.Website, websiteRules)
	}
	if data.HearAboutUs != nil {
		check(errs, FieldHearAboutUs, *data.HearAboutUs, hearAboutUsRules)
	}

	if len(errs) > 0 {
		return Result{Success: false, FieldErrors: errs}
	}

	return Result{Success: true, Data: &normalized}
}

func check(errs FieldErrors, field, value string, rules []rule) {
	for _, r := range rules {
		if err := validate.Var(value, r.tag); err != nil {
			errs.Add(field, r.message)
		}
	}
}

// IsBlockedDomain reports whether the email's domain belongs to a disposable mail provider
func IsBlockedDomain(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return false
	}

	_, blocked := blockedEmailDomains[strings.ToLower(parts[1])]
	return blocked
}

// HasMinimumDigits reports whether phone carries enough digits once formatting is stripped
func HasMinimumDigits(phone string) bool {
	return len(nonDigit.ReplaceAllString(phone, "")) >= minimumPhoneDigits
}

// HoneypotTriggered reports whether the hidden website field was filled in
func HoneypotTriggered(data FormData) bool {
	return data.Website != nil && *data.Website != ""
}
