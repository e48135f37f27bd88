package contact

import "sort"

// FormData is a contact form submission. Pointer fields are optional and nil when omitted.
// Website is a honeypot: real visitors never see it, so it must stay empty.
type FormData struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Company     *string `json:"company,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Website     *string `json:"website,omitempty"`
	Message     string  `json:"message"`
	HearAboutUs *string `json:"hearAboutUs,omitempty"`
}

// FieldErrors maps a field name to every message reported for it
type FieldErrors map[string][]string

// Add appends a message for field
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Fields returns the failing field names in a stable order
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Result is the outcome of Validate. Data is set on success, FieldErrors on failure.
type Result struct {
	Success     bool        `json:"success"`
	Data        *FormData   `json:"data,omitempty"`
	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`
}
