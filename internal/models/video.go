package models

// VideoResolveRequest asks for an embeddable source for a testimonial or explainer video
type VideoResolveRequest struct {
	Provider string `json:"provider" binding:"required,max=32"`
	VideoID  string `json:"videoId" binding:"max=256"`
	Src      string `json:"src" binding:"max=2048"`
}
