package daemon

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"instagen/internal/logging"
	"instagen/internal/types"
)

const (
	missingParamsMessage = "Missing required parameters in request body."
	noImagesMessage      = "The AI model did not generate any images. This could be due to a restrictive prompt. Please try rephrasing your prompt."

	geminiConfigMessage     = "Server configuration error: GEMINI_API_KEY is not set."
	cloudinaryConfigMessage = "Server configuration error: Cloudinary environment variables are not set."
	instagramConfigMessage  = "Server configuration error: Instagram environment variables are not set."
)

type generateRequest struct {
	Prompt      string             `json:"prompt"`
	PostType    types.PostType     `json:"postType"`
	Tone        types.Tone         `json:"tone"`
	Length      types.Length       `json:"length"`
	AspectRatio string             `json:"aspectRatio"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

type generateTextRequest struct {
	Prompt      string             `json:"prompt"`
	Tone        types.Tone         `json:"tone"`
	Length      types.Length       `json:"length"`
	ImageBase64 string             `json:"imageBase64"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

type publishRequest struct {
	ImageBase64 string             `json:"imageBase64"`
	Caption     string             `json:"caption"`
	APIKeys     *types.Credentials `json:"apiKeys,omitempty"`
}

func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || req.PostType == "" || req.AspectRatio == "" {
		writeError(w, http.StatusBadRequest, missingParamsMessage)
		return
	}
	creds := a.credentials(req.APIKeys)
	if !creds.Ready() {
		writeError(w, http.StatusInternalServerError, geminiConfigMessage)
		return
	}

	images, err := a.Backends.Media.Generate(r.Context(), MediaPrompt{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Count:       types.ImageCountFor(req.PostType),
	})
	if err != nil {
		a.logger().Error("media generation failed", logging.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(images) == 0 {
		writeError(w, http.StatusInternalServerError, noImagesMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imageBases64": images})
}

func (a *API) GenerateText(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}
	var req generateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || req.Tone == "" || req.Length == "" || strings.TrimSpace(req.ImageBase64) == "" {
		writeError(w, http.StatusBadRequest, missingParamsMessage)
		return
	}
	creds := a.credentials(req.APIKeys)
	if !creds.Ready() {
		writeError(w, http.StatusInternalServerError, geminiConfigMessage)
		return
	}

	text, err := a.Backends.Text.Compose(r.Context(), TextPrompt{
		Prompt:      req.Prompt,
		Tone:        req.Tone,
		Length:      req.Length,
		ImageBase64: req.ImageBase64,
	})
	if err != nil {
		a.logger().Error("text generation failed", logging.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Text generation failed: "+err.Error())
		return
	}
	if text == nil || len(text.CaptionVariations) == 0 {
		writeError(w, http.StatusInternalServerError, "Text generation failed: The AI returned an empty response. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, text)
}

func (a *API) Publish(w http.ResponseWriter, r *http.Request) {
	if handlePreflight(w, r) {
		return
	}
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ImageBase64) == "" || strings.TrimSpace(req.Caption) == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters: imageBase64 and caption.")
		return
	}
	creds := a.credentials(req.APIKeys)
	if strings.TrimSpace(creds.CloudinaryCloudName) == "" || strings.TrimSpace(creds.CloudinaryAPIKey) == "" {
		writeError(w, http.StatusInternalServerError, cloudinaryConfigMessage)
		return
	}
	if strings.TrimSpace(creds.InstagramUserID) == "" || strings.TrimSpace(creds.InstagramAccessToken) == "" {
		writeError(w, http.StatusInternalServerError, instagramConfigMessage)
		return
	}

	imageURL, err := a.Backends.Publisher.Upload(r.Context(), creds, req.ImageBase64)
	if err != nil {
		a.logger().Error("image upload failed", logging.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Publishing failed: "+err.Error())
		return
	}
	postID, err := a.Backends.Publisher.Publish(r.Context(), creds, imageURL, req.Caption)
	if err != nil {
		a.logger().Error("post publish failed", logging.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Publishing failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"postId":            postID,
		"optimizedImageUrl": imageURL,
	})
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": a.Version,
		"pid":     os.Getpid(),
	})
}

func (a *API) ShutdownServer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	if a.Shutdown != nil {
		go func() {
			_ = a.Shutdown(r.Context())
		}()
	}
}
