package client

import "instagen/internal/types"

// Wire formats for the three remote operations. Field names follow the
// operations server contract.

type GenerateMediaRequest struct {
	Prompt      string             `json:"prompt"`
	PostType    types.PostType     `json:"postType"`
	Tone        types.Tone         `json:"tone"`
	Length      types.Length       `json:"length"`
	AspectRatio string             `json:"aspectRatio"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

type GenerateMediaResponse struct {
	ImageBases64 []string `json:"imageBases64"`
}

type GenerateTextRequest struct {
	Prompt      string             `json:"prompt"`
	Tone        types.Tone         `json:"tone"`
	Length      types.Length       `json:"length"`
	ImageBase64 string             `json:"imageBase64"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

type GenerateTextResponse struct {
	CaptionVariations []types.CaptionVariation `json:"captionVariations"`
	Hashtags          string                   `json:"hashtags"`
}

type PublishRequest struct {
	ImageBase64 string             `json:"imageBase64"`
	Caption     string             `json:"caption"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

type PublishResponse struct {
	PostID            string `json:"postId"`
	OptimizedImageURL string `json:"optimizedImageUrl"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	PID     int    `json:"pid,omitempty"`
}
