package daemon

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"instagen/internal/config"
	"instagen/internal/types"
)

// MediaPrompt carries the inputs of one media-generation call.
type MediaPrompt struct {
	Prompt      string
	AspectRatio string
	Count       int
}

// TextPrompt carries the inputs of one text-generation call.
type TextPrompt struct {
	Prompt      string
	Tone        types.Tone
	Length      types.Length
	ImageBase64 string
}

// MediaGenerator produces base64-encoded image candidates for a prompt.
type MediaGenerator interface {
	Generate(ctx context.Context, prompt MediaPrompt) ([]string, error)
}

// TextComposer produces caption variations and hashtags for a prompt and
// a selected image.
type TextComposer interface {
	Compose(ctx context.Context, prompt TextPrompt) (*types.GeneratedText, error)
}

// Publisher uploads an image to the media host and creates the social
// post referencing the hosted copy.
type Publisher interface {
	Upload(ctx context.Context, creds types.Credentials, imageBase64 string) (string, error)
	Publish(ctx context.Context, creds types.Credentials, imageURL, caption string) (string, error)
}

// Backends groups the pluggable operation implementations behind the API.
type Backends struct {
	Media     MediaGenerator
	Text      TextComposer
	Publisher Publisher
}

// SimulatedBackends returns deterministic in-process implementations of
// all three operations, paced by the configured latencies.
func SimulatedBackends(cfg config.Config) Backends {
	return Backends{
		Media:     &simulatedMedia{latency: cfg.MediaLatency()},
		Text:      &simulatedText{latency: cfg.TextLatency()},
		Publisher: &simulatedPublisher{upload: cfg.UploadLatency(), publish: cfg.PublishLatency()},
	}
}

// CredentialsFromEnv reads the operation secrets from the process
// environment.
func CredentialsFromEnv() types.Credentials {
	return types.Credentials{
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		CloudinaryCloudName:  strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
		CloudinaryAPIKey:     strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
		CloudinaryAPISecret:  strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		InstagramUserID:      strings.TrimSpace(os.Getenv("INSTAGRAM_USER_ID")),
		InstagramAccessToken: strings.TrimSpace(os.Getenv("INSTAGRAM_ACCESS_TOKEN")),
	}
}

type simulatedMedia struct {
	latency time.Duration
}

func (m *simulatedMedia) Generate(ctx context.Context, prompt MediaPrompt) ([]string, error) {
	if err := pause(ctx, m.latency); err != nil {
		return nil, err
	}
	count := prompt.Count
	if count < 1 {
		count = 1
	}
	images := make([]string, 0, count)
	for i := 0; i < count; i++ {
		payload := fmt.Sprintf("simulated image %d/%d ratio=%s prompt=%s", i+1, count, prompt.AspectRatio, prompt.Prompt)
		images = append(images, base64.StdEncoding.EncodeToString([]byte(payload)))
	}
	return images, nil
}

type simulatedText struct {
	latency time.Duration
}

func (t *simulatedText) Compose(ctx context.Context, prompt TextPrompt) (*types.GeneratedText, error) {
	if err := pause(ctx, t.latency); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(prompt.Prompt)
	if subject == "" {
		subject = "this moment"
	}
	return &types.GeneratedText{
		CaptionVariations: captionsFor(subject, prompt.Tone, prompt.Length),
		Hashtags:          hashtagsFor(subject),
	}, nil
}

func captionsFor(subject string, tone types.Tone, length types.Length) []types.CaptionVariation {
	openers := map[types.Tone]string{
		types.ToneFriendly:      "Here's something we love:",
		types.ToneProfessional:  "Introducing:",
		types.ToneWitty:         "Plot twist:",
		types.ToneInspirational: "Every day is a chance to celebrate",
		types.ToneCasual:        "Just dropping this here:",
	}
	opener, ok := openers[tone]
	if !ok {
		opener = openers[types.ToneFriendly]
	}

	body := subject
	switch length {
	case types.LengthMedium:
		body = subject + ". We can't stop thinking about it, and we figured you'd want to see it too."
	case types.LengthLong:
		body = subject + ". We can't stop thinking about it, and we figured you'd want to see it too. Stick around, because there's more where this came from and we'll be sharing it all week."
	}

	return []types.CaptionVariation{
		{Caption: opener + " " + body, CallToAction: "Tell us what you think in the comments!"},
		{Caption: body, CallToAction: "Double tap if you agree!"},
		{Caption: "You asked, we delivered: " + body, CallToAction: "Share this with a friend who needs to see it."},
	}
}

func hashtagsFor(subject string) string {
	tags := []string{"#instagood", "#photooftheday", "#content"}
	for _, word := range strings.Fields(strings.ToLower(subject)) {
		word = strings.Trim(word, ".,!?:;\"'")
		if len(word) < 3 || len(tags) >= 8 {
			continue
		}
		tags = append(tags, "#"+word)
	}
	return strings.Join(tags, " ")
}

type simulatedPublisher struct {
	upload  time.Duration
	publish time.Duration
}

func (p *simulatedPublisher) Upload(ctx context.Context, creds types.Credentials, imageBase64 string) (string, error) {
	if err := pause(ctx, p.upload); err != nil {
		return "", err
	}
	if _, err := base64.StdEncoding.DecodeString(imageBase64); err != nil {
		return "", fmt.Errorf("image payload is not valid base64: %w", err)
	}
	publicID := uuid.NewString()
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_jpg/%s.jpg", creds.CloudinaryCloudName, publicID), nil
}

func (p *simulatedPublisher) Publish(ctx context.Context, creds types.Credentials, imageURL, caption string) (string, error) {
	if err := pause(ctx, p.publish); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d", creds.InstagramUserID, time.Now().UnixMilli()), nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
