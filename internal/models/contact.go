package models

import (
	"time"

	"github.com/firmtemplate/firm-api/internal/contact"
)

// ContactResponse is returned for every contact form submission
type ContactResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	FieldErrors contact.FieldErrors `json:"fieldErrors,omitempty"`
}

// LeadStatus tracks downstream delivery of an accepted submission
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusDelivered LeadStatus = "delivered"
)

// Lead is an accepted, sanitized contact submission ready for a CRM or inbox.
// ClientIPHash is the SHA-256 of the client address; the raw address is never stored.
type Lead struct {
	ID              string     `json:"id"`
	ReceivedAt      time.Time  `json:"receivedAt"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Company         string     `json:"company,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Message         string     `json:"message"`
	HearAboutUs     string     `json:"hearAboutUs,omitempty"`
	ClientIPHash    string     `json:"clientIpHash"`
	IsSuspicious    bool       `json:"isSuspicious"`
	SuspicionReason string     `json:"suspicionReason,omitempty"`
	Status          LeadStatus `json:"status"`
}
