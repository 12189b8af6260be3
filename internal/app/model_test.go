package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"instagen/internal/client"
	"instagen/internal/store"
	"instagen/internal/types"
	"instagen/internal/wizard"
)

type fakeOps struct{}

func (fakeOps) GenerateMedia(ctx context.Context, req client.GenerateMediaRequest) (*client.GenerateMediaResponse, error) {
	return &client.GenerateMediaResponse{ImageBases64: []string{"img-a", "img-b"}}, nil
}

func (fakeOps) GenerateText(ctx context.Context, req client.GenerateTextRequest) (*client.GenerateTextResponse, error) {
	return &client.GenerateTextResponse{
		CaptionVariations: []types.CaptionVariation{{Caption: "Meet Whiskers", CallToAction: "Tap the link!"}},
		Hashtags:          "#cat",
	}, nil
}

func (fakeOps) Publish(ctx context.Context, req client.PublishRequest) (*client.PublishResponse, error) {
	return &client.PublishResponse{PostID: "1_2", OptimizedImageURL: "https://cdn/x.jpg"}, nil
}

func newTestModel(t *testing.T) (*Model, *wizard.Machine) {
	t.Helper()
	repo, err := store.NewBboltRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	updates := make(chan wizard.Session, sessionQueueSize)
	machine := wizard.NewMachine(fakeOps{}, wizard.WithObserver(func(session wizard.Session) {
		select {
		case updates <- session:
		default:
		}
	}))
	model := NewModel(machine, updates, repo.History(), repo.Credentials())
	return &model, machine
}

func driveToPreview(t *testing.T, machine *wizard.Machine) {
	t.Helper()
	if err := machine.UpdateForm(types.PostForm{
		Prompt:   "a cute cat",
		PostType: types.PostTypeFeedSquare,
		Tone:     types.ToneFriendly,
		Length:   types.LengthShort,
	}); err != nil {
		t.Fatalf("update form: %v", err)
	}
	if err := machine.SubmitPrompt(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := machine.SelectImage(context.Background(), 0); err != nil {
		t.Fatalf("select image: %v", err)
	}
}

func TestDigitKey(t *testing.T) {
	if got := digitKey("1"); got != 0 {
		t.Fatalf("digitKey(1) = %d", got)
	}
	if got := digitKey("9"); got != 8 {
		t.Fatalf("digitKey(9) = %d", got)
	}
	if got := digitKey("0"); got != -1 {
		t.Fatalf("digitKey(0) = %d", got)
	}
	if got := digitKey("enter"); got != -1 {
		t.Fatalf("digitKey(enter) = %d", got)
	}
}

func TestFormCycling(t *testing.T) {
	model, _ := newTestModel(t)
	model.setRow(rowPostType)
	model.cycleOption(1)
	if got := model.form().PostType; got != types.PostTypeFeedPortrait {
		t.Fatalf("expected feed-portrait after one step, got %s", got)
	}
	model.cycleOption(-1)
	if got := model.form().PostType; got != types.PostTypeFeedSquare {
		t.Fatalf("expected wrap back to feed-square, got %s", got)
	}
	model.setRow(rowTone)
	model.cycleOption(-1)
	if got := model.form().Tone; got != types.ToneCasual {
		t.Fatalf("expected backward wrap to casual, got %s", got)
	}
}

func TestApplySessionClampsCursors(t *testing.T) {
	model, machine := newTestModel(t)
	model.cursor = 7
	model.variant = 4
	driveToPreview(t, machine)

	model.applySession(machine.Snapshot())
	if model.cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", model.cursor)
	}
	if model.variant != 0 {
		t.Fatalf("expected variant clamped to 0, got %d", model.variant)
	}
}

func TestApplyEditUpdatesCaption(t *testing.T) {
	model, machine := newTestModel(t)
	driveToPreview(t, machine)
	model.applySession(machine.Snapshot())

	model.field = editCaption
	model.editor.SetValue("Rewritten caption")
	model.applyEdit()

	session := machine.Snapshot()
	if session.Text.CaptionVariations[0].Caption != "Rewritten caption" {
		t.Fatalf("edit not applied: %+v", session.Text)
	}
	if session.Text.CaptionVariations[0].CallToAction != "Tap the link!" {
		t.Fatalf("cta should be untouched, got %q", session.Text.CaptionVariations[0].CallToAction)
	}
}

func TestApplyEditHashtags(t *testing.T) {
	model, machine := newTestModel(t)
	driveToPreview(t, machine)
	model.applySession(machine.Snapshot())

	model.field = editHashtags
	model.editor.SetValue("#new #tags")
	model.applyEdit()

	if got := machine.Snapshot().Text.Hashtags; got != "#new #tags" {
		t.Fatalf("hashtags edit not applied, got %q", got)
	}
}

func TestViewRendersEveryStage(t *testing.T) {
	model, machine := newTestModel(t)
	stages := []wizard.Stage{
		wizard.StageIdle, wizard.StageLoadingMedia, wizard.StageSelectingImage,
		wizard.StageLoadingText, wizard.StagePreview, wizard.StagePublishing,
		wizard.StagePublished, wizard.StageError,
	}
	driveToPreview(t, machine)
	session := machine.Snapshot()
	for _, stage := range stages {
		session.Stage = stage
		session.LastError = "Media Generation Failed: boom"
		model.session = session
		if view := model.View(); view == "" {
			t.Fatalf("empty view for stage %s", stage)
		}
	}
}

func TestErrorViewShowsMessage(t *testing.T) {
	model, machine := newTestModel(t)
	session := machine.Snapshot()
	session.Stage = wizard.StageError
	session.LastError = "Publishing Failed: upload rejected"
	model.session = session

	view := model.View()
	if !strings.Contains(view, "Publishing Failed: upload rejected") {
		t.Fatalf("error view missing message:\n%s", view)
	}
}

func TestPayloadSize(t *testing.T) {
	if got := payloadSize("aGVsbG8="); got != "6 B" {
		t.Fatalf("payloadSize = %q", got)
	}
	large := strings.Repeat("A", 4096)
	if got := payloadSize(large); got != "3.0 KB" {
		t.Fatalf("payloadSize(4096 chars) = %q", got)
	}
}
