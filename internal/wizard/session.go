package wizard

import "instagen/internal/types"

// Stage is the current discrete phase of the workflow.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageLoadingMedia   Stage = "loading-media"
	StageSelectingImage Stage = "selecting-image"
	StageLoadingText    Stage = "loading-text"
	StagePreview        Stage = "preview"
	StagePublishing     Stage = "publishing"
	StagePublished      Stage = "published"
	StageError          Stage = "error"
)

// Loading reports whether a remote call is in flight for this stage. No
// user action other than observing is reachable while loading.
func (s Stage) Loading() bool {
	return s == StageLoadingMedia || s == StageLoadingText || s == StagePublishing
}

// Action names the remote operation last attempted, for retry branching.
type Action string

const (
	ActionGenerateMedia Action = "generate-media"
	ActionGenerateText  Action = "generate-text"
	ActionPublish       Action = "publish"
)

// Session is the accumulated state of one workflow run. It is owned by
// the Machine and handed to observers as a deep copy.
type Session struct {
	Form          types.PostForm
	Stage         Stage
	Media         []string
	SelectedImage int
	Text          *types.GeneratedText
	LastAction    Action
	LastError     string
	PublishedURL  string
	PostID        string
}

func newSession() Session {
	return Session{
		Form:  types.DefaultPostForm(),
		Stage: StageIdle,
	}
}

func cloneSession(s Session) Session {
	out := s
	if s.Media != nil {
		out.Media = append([]string(nil), s.Media...)
	}
	out.Text = types.CloneGeneratedText(s.Text)
	return out
}

// HasMedia reports whether image candidates are available.
func (s Session) HasMedia() bool {
	return len(s.Media) > 0
}

// HasText reports whether generated captions are available.
func (s Session) HasText() bool {
	return s.Text != nil && len(s.Text.CaptionVariations) > 0
}
