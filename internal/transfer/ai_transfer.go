package transfer

type TextGeneration struct {
	Prompt   string `json:"prompt"`
	Tone     string `json:"tone"`
	Platform string `json:"platform"`
}

type ImageGeneration struct {
	Prompt string `json:"prompt"`
}

type GeneratedImage struct {
	MediaRef int64  `json:"media_ref"`
	URL      string `json:"url"`
}
