package video

import "strings"

// Provider is one of the supported video sources
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
	ProviderFile    Provider = "file"
)

// Status is the outcome of resolving a video source
type Status string

const (
	StatusReady Status = "ready"
	StatusError Status = "error"
)

const (
	ReasonUnsupportedProvider = "Unsupported video provider."
	ReasonMissingFileSource   = "Missing video file source."
	ReasonMissingVideoID      = "Missing video ID."

	youtubeEmbedBase = "https://www.youtube.com/embed/"
	vimeoEmbedBase   = "https://player.vimeo.com/video/"
)

var providers = map[Provider]struct{}{
	ProviderYouTube: {},
	ProviderVimeo:   {},
	ProviderFile:    {},
}

// Input describes the video a page wants to embed
type Input struct {
	Provider string `json:"provider"`
	VideoID  string `json:"videoId,omitempty"`
	Src      string `json:"src,omitempty"`
}

// Source is the resolved, embeddable video.
// Src is set only when Status is ready. Provider is empty when the input provider was not recognized.
type Source struct {
	Status   Status   `json:"status"`
	Provider Provider `json:"provider,omitempty"`
	Src      string   `json:"src,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// IsProvider reports whether raw names a supported provider. Matching is exact.
func IsProvider(raw string) bool {
	_, ok := providers[Provider(raw)]
	return ok
}

// Resolve builds an embeddable source. Unlike scheduling, an unknown provider is
// reported as an error so the page can show a broken-video message.
func Resolve(in Input) Source {
	if !IsProvider(in.Provider) {
		return Source{Status: StatusError, Reason: ReasonUnsupportedProvider}
	}

	provider := Provider(in.Provider)

	if provider == ProviderFile {
		if strings.TrimSpace(in.Src) == "" {
			return Source{Status: StatusError, Provider: provider, Reason: ReasonMissingFileSource}
		}
		// File sources are direct URLs supplied by the caller and pass through untouched.
		return Source{Status: StatusReady, Provider: provider, Src: in.Src}
	}

	videoID := strings.TrimSpace(in.VideoID)
	if videoID == "" {
		return Source{Status: StatusError, Provider: provider, Reason: ReasonMissingVideoID}
	}

	return Source{Status: StatusReady, Provider: provider, Src: embedURL(provider, videoID)}
}

func embedURL(provider Provider, videoID string) string {
	if provider == ProviderYouTube {
		return youtubeEmbedBase + videoID
	}
	return vimeoEmbedBase + videoID
}
