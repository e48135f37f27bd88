package models

// ExitIntentDecideRequest is posted by the page when the pointer leaves the viewport.
// Touch hints are optional; when absent the server falls back to client hint headers.
type ExitIntentDecideRequest struct {
	VisitorID      string `json:"visitorId" binding:"omitempty,max=128"`
	Frequency      string `json:"frequency" binding:"omitempty,oneof=session day week"`
	Path           string `json:"path" binding:"omitempty,max=2048"`
	HasTouchStart  *bool  `json:"hasTouchStart,omitempty"`
	MaxTouchPoints *int   `json:"maxTouchPoints,omitempty" binding:"omitempty,min=0"`
}

// ExitIntentDecideResponse tells the page whether to open the prompt.
// VisitorID echoes the id the decision was made for, minted when the request had none.
type ExitIntentDecideResponse struct {
	Show       bool   `json:"show"`
	Reason     string `json:"reason"`
	CooldownMs int64  `json:"cooldownMs"`
	VisitorID  string `json:"visitorId"`
}

// ExitIntentShownRequest records that the prompt was displayed
type ExitIntentShownRequest struct {
	VisitorID string `json:"visitorId" binding:"required,max=128"`
	Frequency string `json:"frequency" binding:"omitempty,oneof=session day week"`
}

// ExitIntentShownResponse reports whether the display was persisted
type ExitIntentShownResponse struct {
	Stored bool `json:"stored"`
}
