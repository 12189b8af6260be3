package types

import "testing"

func TestCredentialsReady(t *testing.T) {
	if (Credentials{}).Ready() {
		t.Fatalf("empty credentials should not be ready")
	}
	if !(Credentials{GeminiAPIKey: "key"}).Ready() {
		t.Fatalf("expected ready with gemini key")
	}
	if (Credentials{GeminiAPIKey: "  "}).Ready() {
		t.Fatalf("whitespace key should not count")
	}
}

func TestCredentialsPublishReady(t *testing.T) {
	full := Credentials{
		CloudinaryCloudName:  "demo",
		CloudinaryAPIKey:     "c-key",
		InstagramUserID:      "12345",
		InstagramAccessToken: "token",
	}
	if !full.PublishReady() {
		t.Fatalf("expected publish ready")
	}
	partial := full
	partial.InstagramAccessToken = ""
	if partial.PublishReady() {
		t.Fatalf("expected not publish ready without access token")
	}
}

func TestCredentialsMerge(t *testing.T) {
	request := Credentials{GeminiAPIKey: "from-request"}
	env := Credentials{GeminiAPIKey: "from-env", CloudinaryCloudName: "demo"}

	merged := request.Merge(env)
	if merged.GeminiAPIKey != "from-request" {
		t.Fatalf("request key should win, got %q", merged.GeminiAPIKey)
	}
	if merged.CloudinaryCloudName != "demo" {
		t.Fatalf("env should fill blanks, got %q", merged.CloudinaryCloudName)
	}
}
