package scheduling

import (
	"net/url"
	"strings"
	"unicode"
)

// Provider identifies the appointment scheduling backend
type Provider string

const (
	ProviderCalendly Provider = "calendly"
	ProviderCalcom   Provider = "calcom"
	ProviderNone     Provider = "none"
)

// Status is the outcome of resolving a scheduling configuration
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
	StatusError    Status = "error"
)

const (
	ReasonNotConfigured   = "Scheduling provider not configured."
	ReasonInvalidCalendly = "Calendly requires a valid scheduling URL."
	ReasonInvalidCalcom   = "Cal.com requires a valid username."

	calcomBaseURL = "https://cal.com/"
)

// Input holds the raw provider settings, usually read once from the environment
type Input struct {
	Provider       string `json:"provider,omitempty"`
	CalendlyURL    string `json:"calendlyUrl,omitempty"`
	CalcomUsername string `json:"calcomUsername,omitempty"`
}

// Config is the resolved scheduling decision.
// EmbedURL is set only when Status is enabled; Reason only when it is not.
type Config struct {
	Status   Status   `json:"status"`
	Provider Provider `json:"provider"`
	EmbedURL string   `json:"embedUrl,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Enabled reports whether the scheduling CTA should be rendered
func (c Config) Enabled() bool {
	return c.Status == StatusEnabled
}

// NormalizeProvider maps a raw provider string onto the known set.
// Unknown values collapse to ProviderNone so a typo hides the CTA instead of breaking it.
func NormalizeProvider(raw string) Provider {
	switch p := Provider(strings.ToLower(raw)); p {
	case ProviderCalendly, ProviderCalcom:
		return p
	default:
		return ProviderNone
	}
}

// Resolve turns raw provider settings into a scheduling decision
func Resolve(in Input) Config {
	provider := NormalizeProvider(in.Provider)

	switch provider {
	case ProviderCalendly:
		embedURL, ok := calendlyEmbedURL(in.CalendlyURL)
		if !ok {
			return Config{Status: StatusError, Provider: provider, Reason: ReasonInvalidCalendly}
		}
		return Config{Status: StatusEnabled, Provider: provider, EmbedURL: embedURL}

	case ProviderCalcom:
		embedURL, ok := calcomEmbedURL(in.CalcomUsername)
		if !ok {
			return Config{Status: StatusError, Provider: provider, Reason: ReasonInvalidCalcom}
		}
		return Config{Status: StatusEnabled, Provider: provider, EmbedURL: embedURL}

	default:
		return Config{Status: StatusDisabled, Provider: ProviderNone, Reason: ReasonNotConfigured}
	}
}

// calendlyEmbedURL accepts only absolute URLs and returns their canonical string form.
// Surrounding whitespace and control characters are trimmed, embedded tabs and newlines
// removed, and a port matching the scheme's default dropped.
func calendlyEmbedURL(raw string) (string, bool) {
	raw = strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	raw = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}

	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); port == "" || port == defaultPorts[u.Scheme] {
		u.Host = strings.TrimSuffix(strings.TrimSuffix(u.Host, port), ":")
	}
	// An absolute URL with an empty path serializes with a trailing slash.
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return u.String(), true
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

func calcomEmbedURL(raw string) (string, bool) {
	username := strings.TrimSpace(raw)
	if username == "" || strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return "", false
	}

	return calcomBaseURL + username, true
}
