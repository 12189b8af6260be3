package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"instagen/internal/config"
	"instagen/internal/types"
)

type stubMedia struct {
	images []string
	err    error
	last   MediaPrompt
}

func (s *stubMedia) Generate(ctx context.Context, prompt MediaPrompt) ([]string, error) {
	s.last = prompt
	return s.images, s.err
}

func newTestServer(t *testing.T, backends Backends, env types.Credentials) *httptest.Server {
	t.Helper()
	api := &API{Version: "test", Backends: backends, Env: env}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func simulatedTestServer(t *testing.T, env types.Credentials) *httptest.Server {
	t.Helper()
	return newTestServer(t, SimulatedBackends(config.Default()), env)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error
}

func geminiOnly() types.Credentials {
	return types.Credentials{GeminiAPIKey: "g-key"}
}

func allCredentials() types.Credentials {
	return types.Credentials{
		GeminiAPIKey:         "g-key",
		CloudinaryCloudName:  "demo",
		CloudinaryAPIKey:     "c-key",
		CloudinaryAPISecret:  "c-secret",
		InstagramUserID:      "12345",
		InstagramAccessToken: "token",
	}
}

func TestPreflightProbe(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/generate", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("expected CORS headers on preflight response")
	}
}

func TestOperationRejectsGet(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp, err := http.Get(server.URL + "/api/generate")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Method Not Allowed" {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestGenerateMissingParams(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp := postJSON(t, server.URL+"/api/generate", map[string]string{"prompt": "a cute cat"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Missing required parameters in request body." {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestGenerateMissingGeminiKey(t *testing.T) {
	server := simulatedTestServer(t, types.Credentials{})
	resp := postJSON(t, server.URL+"/api/generate", generateRequest{
		Prompt:      "a cute cat",
		PostType:    types.PostTypeFeedSquare,
		Tone:        types.ToneFriendly,
		Length:      types.LengthShort,
		AspectRatio: "1:1",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Server configuration error: GEMINI_API_KEY is not set." {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestGenerateRequestKeysOverrideEnv(t *testing.T) {
	server := simulatedTestServer(t, types.Credentials{})
	resp := postJSON(t, server.URL+"/api/generate", generateRequest{
		Prompt:      "a cute cat",
		PostType:    types.PostTypeFeedSquare,
		Tone:        types.ToneFriendly,
		Length:      types.LengthShort,
		AspectRatio: "1:1",
		APIKeys:     &types.Credentials{GeminiAPIKey: "from-request"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGenerateCarouselProducesFiveImages(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp := postJSON(t, server.URL+"/api/generate", generateRequest{
		Prompt:      "city skyline",
		PostType:    types.PostTypeCarousel,
		Tone:        types.ToneProfessional,
		Length:      types.LengthMedium,
		AspectRatio: "1:1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		ImageBases64 []string `json:"imageBases64"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.ImageBases64) != 5 {
		t.Fatalf("expected 5 carousel images, got %d", len(payload.ImageBases64))
	}
}

func TestGenerateZeroImagesIsFailure(t *testing.T) {
	backends := SimulatedBackends(config.Default())
	backends.Media = &stubMedia{images: nil}
	server := newTestServer(t, backends, geminiOnly())

	resp := postJSON(t, server.URL+"/api/generate", generateRequest{
		Prompt:      "a cute cat",
		PostType:    types.PostTypeFeedSquare,
		Tone:        types.ToneFriendly,
		Length:      types.LengthShort,
		AspectRatio: "1:1",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); !strings.Contains(got, "did not generate any images") {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestGenerateTextSuccess(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp := postJSON(t, server.URL+"/api/generate-text", generateTextRequest{
		Prompt:      "a cute cat",
		Tone:        types.ToneWitty,
		Length:      types.LengthShort,
		ImageBase64: "aGVsbG8=",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload types.GeneratedText
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.CaptionVariations) == 0 {
		t.Fatalf("expected caption variations")
	}
	for _, variation := range payload.CaptionVariations {
		if variation.Caption == "" || variation.CallToAction == "" {
			t.Fatalf("incomplete variation %+v", variation)
		}
	}
	if !strings.Contains(payload.Hashtags, "#") {
		t.Fatalf("expected hashtags, got %q", payload.Hashtags)
	}
}

func TestGenerateTextMissingImage(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp := postJSON(t, server.URL+"/api/generate-text", generateTextRequest{
		Prompt: "a cute cat",
		Tone:   types.ToneWitty,
		Length: types.LengthShort,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Missing required parameters in request body." {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestPublishMissingCloudinaryConfig(t *testing.T) {
	server := simulatedTestServer(t, geminiOnly())
	resp := postJSON(t, server.URL+"/api/publish", publishRequest{
		ImageBase64: "aGVsbG8=",
		Caption:     "caption",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Server configuration error: Cloudinary environment variables are not set." {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestPublishMissingInstagramConfig(t *testing.T) {
	env := types.Credentials{CloudinaryCloudName: "demo", CloudinaryAPIKey: "c-key"}
	server := simulatedTestServer(t, env)
	resp := postJSON(t, server.URL+"/api/publish", publishRequest{
		ImageBase64: "aGVsbG8=",
		Caption:     "caption",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); got != "Server configuration error: Instagram environment variables are not set." {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestPublishSuccess(t *testing.T) {
	server := simulatedTestServer(t, allCredentials())
	resp := postJSON(t, server.URL+"/api/publish", publishRequest{
		ImageBase64: "aGVsbG8=",
		Caption:     "caption\n\ncta\n\n#tags",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		PostID            string `json:"postId"`
		OptimizedImageURL string `json:"optimizedImageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(payload.PostID, "12345_") {
		t.Fatalf("unexpected post id %q", payload.PostID)
	}
	if !strings.Contains(payload.OptimizedImageURL, "res.cloudinary.com/demo/") {
		t.Fatalf("unexpected image url %q", payload.OptimizedImageURL)
	}
}

func TestPublishRejectsInvalidBase64(t *testing.T) {
	server := simulatedTestServer(t, allCredentials())
	resp := postJSON(t, server.URL+"/api/publish", publishRequest{
		ImageBase64: "not base64!!!",
		Caption:     "caption",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if got := decodeError(t, resp); !strings.HasPrefix(got, "Publishing failed: ") {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := simulatedTestServer(t, types.Credentials{})
	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		OK      bool   `json:"ok"`
		Version string `json:"version"`
		PID     int    `json:"pid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.OK || payload.Version != "test" || payload.PID <= 0 {
		t.Fatalf("unexpected health payload %+v", payload)
	}
}
