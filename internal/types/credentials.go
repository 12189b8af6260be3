package types

import "strings"

// Credentials holds the optional secrets forwarded to the remote
// operations. All fields may be empty; per-operation requirements are
// enforced by the operations themselves, not here.
type Credentials struct {
	GeminiAPIKey         string `json:"gemini,omitempty"`
	CloudinaryCloudName  string `json:"cloudinary_cloud_name,omitempty"`
	CloudinaryAPIKey     string `json:"cloudinary_api_key,omitempty"`
	CloudinaryAPISecret  string `json:"cloudinary_api_secret,omitempty"`
	InstagramUserID      string `json:"instagram_user_id,omitempty"`
	InstagramAccessToken string `json:"instagram_access_token,omitempty"`
}

// Ready reports whether the essential generation credential is present.
// This only gates the submit affordance; each operation re-checks its own
// requirements server-side.
func (c Credentials) Ready() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// PublishReady reports whether all four publish-side credentials are set.
func (c Credentials) PublishReady() bool {
	return strings.TrimSpace(c.CloudinaryCloudName) != "" &&
		strings.TrimSpace(c.CloudinaryAPIKey) != "" &&
		strings.TrimSpace(c.InstagramUserID) != "" &&
		strings.TrimSpace(c.InstagramAccessToken) != ""
}

func (c Credentials) Merge(fallback Credentials) Credentials {
	out := c
	if strings.TrimSpace(out.GeminiAPIKey) == "" {
		out.GeminiAPIKey = fallback.GeminiAPIKey
	}
	if strings.TrimSpace(out.CloudinaryCloudName) == "" {
		out.CloudinaryCloudName = fallback.CloudinaryCloudName
	}
	if strings.TrimSpace(out.CloudinaryAPIKey) == "" {
		out.CloudinaryAPIKey = fallback.CloudinaryAPIKey
	}
	if strings.TrimSpace(out.CloudinaryAPISecret) == "" {
		out.CloudinaryAPISecret = fallback.CloudinaryAPISecret
	}
	if strings.TrimSpace(out.InstagramUserID) == "" {
		out.InstagramUserID = fallback.InstagramUserID
	}
	if strings.TrimSpace(out.InstagramAccessToken) == "" {
		out.InstagramAccessToken = fallback.InstagramAccessToken
	}
	return out
}
