package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"instagen/internal/client"
	"instagen/internal/logging"
	"instagen/internal/types"
)

var (
	ErrPromptRequired  = errors.New("prompt is required")
	ErrInvalidStage    = errors.New("action not available in current stage")
	ErrImageOutOfRange = errors.New("image selection out of range")
)

const (
	mediaFailurePrefix   = "Media Generation Failed: "
	textFailurePrefix    = "Text Generation Failed: "
	publishFailurePrefix = "Publishing Failed: "

	missingContentMessage = "Cannot publish. Missing generated content."
	noImagesMessage       = "The AI model did not generate any images."
)

// Operations is the remote-operation port the machine drives. The
// concrete client normalizes all failures into message-carrying errors.
type Operations interface {
	GenerateMedia(ctx context.Context, req client.GenerateMediaRequest) (*client.GenerateMediaResponse, error)
	GenerateText(ctx context.Context, req client.GenerateTextRequest) (*client.GenerateTextResponse, error)
	Publish(ctx context.Context, req client.PublishRequest) (*client.PublishResponse, error)
}

// Recorder receives one history entry per successful publish. Failures
// are logged and never affect the workflow stage.
type Recorder interface {
	Record(ctx context.Context, record *types.HistoryRecord) (*types.HistoryRecord, error)
}

// CredentialsSource supplies the stored secrets forwarded with each
// remote call. Load failures are treated as absent credentials.
type CredentialsSource interface {
	Load(ctx context.Context) (types.Credentials, error)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *types.HistoryRecord) (*types.HistoryRecord, error) {
	return nil, nil
}

type nopCredentials struct{}

func (nopCredentials) Load(context.Context) (types.Credentials, error) {
	return types.Credentials{}, nil
}

// Machine owns the session and the legal transitions between stages.
// Public methods are synchronous: they validate locally, run the remote
// call, and apply the outcome before returning. Remote failures never
// surface as returned errors; they land in the session as the error
// stage. Callers run methods off the UI goroutine and observe
// transitions via the observer hook.
type Machine struct {
	mu        sync.Mutex
	session   Session
	epoch     int
	ops       Operations
	recorder  Recorder
	creds     CredentialsSource
	logger    logging.Logger
	observers []func(Session)
}

type Option func(*Machine)

func WithRecorder(recorder Recorder) Option {
	return func(m *Machine) {
		if m == nil || recorder == nil {
			return
		}
		m.recorder = recorder
	}
}

func WithCredentialsSource(source CredentialsSource) Option {
	return func(m *Machine) {
		if m == nil || source == nil {
			return
		}
		m.creds = source
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(m *Machine) {
		if m == nil || logger == nil {
			return
		}
		m.logger = logger
	}
}

// WithObserver registers a callback invoked with a session snapshot
// after every transition. Callbacks run outside the machine lock.
func WithObserver(observer func(Session)) Option {
	return func(m *Machine) {
		if m == nil || observer == nil {
			return
		}
		m.observers = append(m.observers, observer)
	}
}

func NewMachine(ops Operations, opts ...Option) *Machine {
	m := &Machine{
		session:  newSession(),
		ops:      ops,
		recorder: nopRecorder{},
		creds:    nopCredentials{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Snapshot returns a deep copy of the current session.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSession(m.session)
}

// UpdateForm replaces the form inputs. Only meaningful before media
// generation starts.
func (m *Machine) UpdateForm(form types.PostForm) error {
	m.mu.Lock()
	if m.session.Stage != StageIdle {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidStage, m.session.Stage)
	}
	m.session.Form = form
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)
	return nil
}

// Ready reports whether the essential generation credential is present.
// Used to gate the submit affordance only; the operations re-check their
// own requirements.
func (m *Machine) Ready(ctx context.Context) bool {
	return m.loadCredentials(ctx).Ready()
}

// SubmitPrompt starts media generation from the idle stage. A missing
// prompt is a local validation error and does not enter the error stage.
func (m *Machine) SubmitPrompt(ctx context.Context) error {
	m.mu.Lock()
	if m.session.Stage != StageIdle {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidStage, m.session.Stage)
	}
	m.mu.Unlock()
	return m.beginMediaGeneration(ctx)
}

// SelectImage records the chosen candidate and starts text generation.
func (m *Machine) SelectImage(ctx context.Context, index int) error {
	m.mu.Lock()
	if m.session.Stage != StageSelectingImage {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidStage, m.session.Stage)
	}
	if index < 0 || index >= len(m.session.Media) {
		m.mu.Unlock()
		return fmt.Errorf("%w: index %d of %d", ErrImageOutOfRange, index, len(m.session.Media))
	}
	m.mu.Unlock()
	return m.beginTextGeneration(ctx, index)
}

// EditText replaces the caption variations and hashtags in place. It
// never changes stage and is a no-op when no text has been generated.
func (m *Machine) EditText(variations []types.CaptionVariation, hashtags string) {
	m.mu.Lock()
	if m.session.Stage != StagePreview || m.session.Text == nil {
		m.mu.Unlock()
		return
	}
	m.session.Text = &types.GeneratedText{
		CaptionVariations: append([]types.CaptionVariation(nil), variations...),
		Hashtags:          hashtags,
	}
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)
}

// Publish uploads the chosen image with the assembled caption. Carousel
// posts publish the image picked in the preview; single posts publish
// the image selected earlier.
func (m *Machine) Publish(ctx context.Context, variation types.CaptionVariation, imageIndex int) error {
	m.mu.Lock()
	if m.session.Stage != StagePreview {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidStage, m.session.Stage)
	}
	if !m.session.HasMedia() || !m.session.HasText() {
		m.session.LastError = missingContentMessage
		m.session.Stage = StageError
		snapshot := cloneSession(m.session)
		m.mu.Unlock()
		m.notify(snapshot)
		return nil
	}

	index := m.session.SelectedImage
	if m.session.Form.PostType == types.PostTypeCarousel {
		index = imageIndex
	}
	if index < 0 || index >= len(m.session.Media) {
		m.mu.Unlock()
		return fmt.Errorf("%w: index %d of %d", ErrImageOutOfRange, index, len(m.session.Media))
	}

	image := m.session.Media[index]
	caption := types.FullCaption(variation, m.session.Text.Hashtags)
	form := m.session.Form
	epoch := m.epoch
	m.session.LastAction = ActionPublish
	m.session.LastError = ""
	m.session.Stage = StagePublishing
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)

	creds := m.loadCredentials(ctx)
	resp, err := m.ops.Publish(ctx, client.PublishRequest{
		ImageBase64: image,
		Caption:     caption,
		APIKeys:     &creds,
	})

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.session.LastError = publishFailurePrefix + err.Error()
		m.session.Stage = StageError
		snapshot = cloneSession(m.session)
		m.mu.Unlock()
		m.notify(snapshot)
		return nil
	}
	m.session.PublishedURL = resp.OptimizedImageURL
	m.session.PostID = resp.PostID
	m.session.Stage = StagePublished
	snapshot = cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)

	m.record(ctx, &types.HistoryRecord{
		ImageURL:    resp.OptimizedImageURL,
		FullCaption: caption,
		Prompt:      form.Prompt,
		PostType:    form.PostType,
	})
	return nil
}

// Reset returns the session to its default idle state. Unconditional;
// the outcome of any in-flight call is discarded.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.epoch++
	m.session = newSession()
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)
}

func (m *Machine) beginMediaGeneration(ctx context.Context) error {
	m.mu.Lock()
	if !m.session.Form.HasPrompt() {
		m.mu.Unlock()
		return ErrPromptRequired
	}
	form := m.session.Form
	epoch := m.epoch
	m.session.LastAction = ActionGenerateMedia
	m.session.Media = nil
	m.session.Text = nil
	m.session.SelectedImage = 0
	m.session.LastError = ""
	m.session.PublishedURL = ""
	m.session.PostID = ""
	m.session.Stage = StageLoadingMedia
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)

	creds := m.loadCredentials(ctx)
	resp, err := m.ops.GenerateMedia(ctx, client.GenerateMediaRequest{
		Prompt:      form.Prompt,
		PostType:    form.PostType,
		Tone:        form.Tone,
		Length:      form.Length,
		AspectRatio: types.AspectRatioFor(form.PostType),
		APIKeys:     &creds,
	})

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	if err == nil && len(resp.ImageBases64) == 0 {
		err = errors.New(noImagesMessage)
	}
	if err != nil {
		m.session.LastError = mediaFailurePrefix + err.Error()
		m.session.Stage = StageError
	} else {
		m.session.Media = append([]string(nil), resp.ImageBases64...)
		m.session.SelectedImage = 0
		m.session.Stage = StageSelectingImage
	}
	snapshot = cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)
	return nil
}

func (m *Machine) beginTextGeneration(ctx context.Context, index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.session.Media) {
		m.mu.Unlock()
		return fmt.Errorf("%w: index %d of %d", ErrImageOutOfRange, index, len(m.session.Media))
	}
	form := m.session.Form
	image := m.session.Media[index]
	epoch := m.epoch
	m.session.SelectedImage = index
	m.session.LastAction = ActionGenerateText
	m.session.LastError = ""
	m.session.Stage = StageLoadingText
	snapshot := cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)

	creds := m.loadCredentials(ctx)
	resp, err := m.ops.GenerateText(ctx, client.GenerateTextRequest{
		Prompt:      form.Prompt,
		Tone:        form.Tone,
		Length:      form.Length,
		ImageBase64: image,
		APIKeys:     &creds,
	})

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.session.LastError = textFailurePrefix + err.Error()
		m.session.Stage = StageError
	} else {
		m.session.Text = &types.GeneratedText{
			CaptionVariations: append([]types.CaptionVariation(nil), resp.CaptionVariations...),
			Hashtags:          resp.Hashtags,
		}
		m.session.Stage = StagePreview
	}
	snapshot = cloneSession(m.session)
	m.mu.Unlock()
	m.notify(snapshot)
	return nil
}

func (m *Machine) loadCredentials(ctx context.Context) types.Credentials {
	creds, err := m.creds.Load(ctx)
	if err != nil {
		m.logger.Warn("credentials load failed", logging.F("error", err.Error()))
		return types.Credentials{}
	}
	return creds
}

func (m *Machine) record(ctx context.Context, record *types.HistoryRecord) {
	if _, err := m.recorder.Record(ctx, record); err != nil {
		m.logger.Warn("history record failed", logging.F("error", err.Error()))
	}
}

func (m *Machine) notify(snapshot Session) {
	for _, observer := range m.observers {
		observer(cloneSession(snapshot))
	}
}
