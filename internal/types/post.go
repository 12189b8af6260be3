package types

import "strings"

type PostType string

const (
	PostTypeFeedSquare   PostType = "feed-square"
	PostTypeFeedPortrait PostType = "feed-portrait"
	PostTypeStoryReel    PostType = "story-reel"
	PostTypeCarousel     PostType = "carousel"
)

type Tone string

const (
	ToneFriendly      Tone = "friendly"
	ToneProfessional  Tone = "professional"
	ToneWitty         Tone = "witty"
	ToneInspirational Tone = "inspirational"
	ToneCasual        Tone = "casual"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

const defaultAspectRatio = "1:1"

// PostOption describes one selectable post format.
type PostOption struct {
	ID          PostType
	Name        string
	AspectRatio string
	Dimensions  string
	ImageCount  int
}

var postOptions = []PostOption{
	{ID: PostTypeFeedSquare, Name: "Feed Post (Square)", AspectRatio: "1:1", Dimensions: "1080x1080", ImageCount: 1},
	{ID: PostTypeFeedPortrait, Name: "Feed Post (Portrait)", AspectRatio: "3:4", Dimensions: "1080x1440", ImageCount: 1},
	{ID: PostTypeStoryReel, Name: "Story / Reel", AspectRatio: "9:16", Dimensions: "1080x1920", ImageCount: 1},
	{ID: PostTypeCarousel, Name: "Carousel (5 Images)", AspectRatio: "1:1", Dimensions: "1080x1080", ImageCount: 5},
}

var toneOptions = []Tone{
	ToneFriendly,
	ToneProfessional,
	ToneWitty,
	ToneInspirational,
	ToneCasual,
}

var lengthOptions = []Length{
	LengthShort,
	LengthMedium,
	LengthLong,
}

func PostOptions() []PostOption {
	return append([]PostOption(nil), postOptions...)
}

func ToneOptions() []Tone {
	return append([]Tone(nil), toneOptions...)
}

func LengthOptions() []Length {
	return append([]Length(nil), lengthOptions...)
}

// AspectRatioFor maps a post type to its target aspect ratio. Unknown
// post types fall back to square.
func AspectRatioFor(postType PostType) string {
	for _, option := range postOptions {
		if option.ID == postType {
			return option.AspectRatio
		}
	}
	return defaultAspectRatio
}

// ImageCountFor returns how many candidates the media operation should
// produce for a post type.
func ImageCountFor(postType PostType) int {
	for _, option := range postOptions {
		if option.ID == postType {
			return option.ImageCount
		}
	}
	return 1
}

// PostForm holds the user inputs collected before media generation.
type PostForm struct {
	Prompt   string   `json:"prompt"`
	PostType PostType `json:"post_type"`
	Tone     Tone     `json:"tone"`
	Length   Length   `json:"length"`
}

// DefaultPostForm returns the form state a fresh or reset session starts
// with.
func DefaultPostForm() PostForm {
	return PostForm{
		Prompt:   "",
		PostType: PostTypeFeedSquare,
		Tone:     ToneFriendly,
		Length:   LengthShort,
	}
}

func (f PostForm) HasPrompt() bool {
	return strings.TrimSpace(f.Prompt) != ""
}

// CaptionVariation is one generated caption plus call-to-action pairing.
type CaptionVariation struct {
	Caption      string `json:"caption"`
	CallToAction string `json:"cta"`
}

// GeneratedText is the text-generation result the user can edit in place.
type GeneratedText struct {
	CaptionVariations []CaptionVariation `json:"captionVariations"`
	Hashtags          string             `json:"hashtags"`
}

func CloneGeneratedText(text *GeneratedText) *GeneratedText {
	if text == nil {
		return nil
	}
	out := GeneratedText{
		Hashtags: text.Hashtags,
	}
	if text.CaptionVariations != nil {
		out.CaptionVariations = append([]CaptionVariation(nil), text.CaptionVariations...)
	}
	return &out
}

// FullCaption assembles the published caption body: caption, call to
// action, and hashtags separated by blank lines, in that fixed order.
func FullCaption(variation CaptionVariation, hashtags string) string {
	return variation.Caption + "\n\n" + variation.CallToAction + "\n\n" + hashtags
}
