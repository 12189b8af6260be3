package wizard

import (
	"context"
	"errors"
	"testing"
)

func TestRetryOutsideErrorStage(t *testing.T) {
	machine := NewMachine(happyOps())
	if err := machine.Retry(context.Background()); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestRetryAfterTextFailureReusesSelection(t *testing.T) {
	ctx := context.Background()
	ops := happyOps()
	ops.mediaResp = []string{"img-a", "img-b", "img-c"}
	ops.textErr = errors.New("model overloaded")
	machine := NewMachine(ops)
	mustUpdateForm(t, machine, catForm())
	mustSubmit(t, machine)
	if err := machine.SelectImage(ctx, 2); err != nil {
		t.Fatalf("select image: %v", err)
	}
	if got := machine.Snapshot().Stage; got != StageError {
		t.Fatalf("expected error stage, got %s", got)
	}

	mediaCalls := ops.mediaCalls
	ops.textErr = nil
	if err := machine.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}

	session := machine.Snapshot()
	if session.Stage != StagePreview {
		t.Fatalf("expected preview after retry, got %s", session.Stage)
	}
	if ops.mediaCalls != mediaCalls {
		t.Fatalf("retry regenerated media: %d calls, want %d", ops.mediaCalls, mediaCalls)
	}
	if ops.lastTextReq.ImageBase64 != "img-c" {
		t.Fatalf("retry used image %q, want img-c", ops.lastTextReq.ImageBase64)
	}
	if session.SelectedImage != 2 {
		t.Fatalf("selected image %d, want 2", session.SelectedImage)
	}
}

func TestRetryAfterMediaFailureRegenerates(t *testing.T) {
	ctx := context.Background()
	ops := happyOps()
	ops.mediaErr = errors.New("quota exhausted")
	machine := NewMachine(ops)
	mustUpdateForm(t, machine, catForm())
	mustSubmit(t, machine)

	ops.mediaErr = nil
	if err := machine.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	session := machine.Snapshot()
	if session.Stage != StageSelectingImage {
		t.Fatalf("expected selecting-image after retry, got %s", session.Stage)
	}
	if ops.mediaCalls != 2 {
		t.Fatalf("expected 2 media calls, got %d", ops.mediaCalls)
	}
}

func TestRetryAfterPublishFailureRestartsMedia(t *testing.T) {
	ctx := context.Background()
	ops := happyOps()
	ops.publishErr = errors.New("upload rejected")
	machine := NewMachine(ops)
	driveToPreview(t, machine, catForm())
	session := machine.Snapshot()
	if err := machine.Publish(ctx, session.Text.CaptionVariations[0], 0); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := machine.Snapshot().Stage; got != StageError {
		t.Fatalf("expected error stage, got %s", got)
	}

	mediaCalls := ops.mediaCalls
	if err := machine.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	session = machine.Snapshot()
	if session.Stage != StageSelectingImage {
		t.Fatalf("expected selecting-image after publish retry, got %s", session.Stage)
	}
	if ops.mediaCalls != mediaCalls+1 {
		t.Fatalf("expected media regeneration, got %d calls", ops.mediaCalls)
	}
	if session.HasText() || session.PublishedURL != "" {
		t.Fatalf("expected text and publish state cleared, got %+v", session)
	}
}
