package exitintent

import (
	"net/http"
	"strings"
)

// Window is the subset of browser window capabilities the touch heuristic needs
type Window struct {
	OnTouchStart bool `json:"onTouchStart"`
}

// Navigator is the subset of browser navigator capabilities the touch heuristic needs
type Navigator struct {
	MaxTouchPoints int `json:"maxTouchPoints"`
}

// IsTouchDevice guesses whether the visitor uses a touch screen, where a pointer
// leaving the viewport is not a meaningful exit signal. Missing references mean
// there is no browser to inspect, so the answer is false.
func IsTouchDevice(window *Window, navigator *Navigator) bool {
	if window == nil || navigator == nil {
		return false
	}

	return window.OnTouchStart || navigator.MaxTouchPoints > 0
}

// DeviceFromRequest derives the touch hints from the Sec-CH-UA-Mobile client hint.
// It returns nil references when the browser did not send the hint.
func DeviceFromRequest(r *http.Request) (*Window, *Navigator) {
	hint := strings.TrimSpace(r.Header.Get("Sec-CH-UA-Mobile"))
	switch hint {
	case "?1":
		return &Window{OnTouchStart: true}, &Navigator{MaxTouchPoints: 1}
	case "?0":
		return &Window{}, &Navigator{}
	default:
		return nil, nil
	}
}
