package types

// MediaObject holds the fields shared by every embedded media variant.
type MediaObject struct {
	ContentURL string `json:"contentUrl,omitempty"`
	Duration   string `json:"duration,omitempty"`
	EmbedURL   string `json:"embedUrl,omitempty"`
	Height     int    `json:"height,omitempty"`
	Width      int    `json:"width,omitempty"`
	UploadDate string `json:"uploadDate,omitempty"`
	NodeURI    string `json:"-"`
}

// ImageObject is an image embedded in an article, also used for thumbnails.
type ImageObject struct {
	MediaObject
	URL                 string `json:"url,omitempty"`
	Caption             string `json:"caption,omitempty"`
	EmbeddedTextCaption string `json:"embeddedTextCaption,omitempty"`
	Type                string `json:"@type,omitempty"`
}

// AudioObject is an audio clip embedded in an article.
type AudioObject struct {
	MediaObject
	Caption    string `json:"caption,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Type       string `json:"@type,omitempty"`
}

// VideoObject is a video embedded in an article.
type VideoObject struct {
	MediaObject
	Caption        string `json:"caption,omitempty"`
	Director       string `json:"director,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	VideoFrameSize string `json:"videoFrameSize,omitempty"`
	VideoQuality   string `json:"videoQuality,omitempty"`
	Type           string `json:"@type,omitempty"`
}
