package wizard

import (
	"context"
	"fmt"
)

// Retry re-attempts the failed action from the error stage.
//
// A failed text generation re-uses the previously selected image; the
// user does not pick again. A failed media generation reissues with the
// existing form inputs. A failed publish restarts from media generation:
// the exact publish arguments (caption variation, carousel index) are
// not preserved across the error boundary, so the narrower retry does
// not exist. This is a deliberate simplification, not a gap to close.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	if m.session.Stage != StageError {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidStage, m.session.Stage)
	}
	action := m.session.LastAction
	index := m.session.SelectedImage
	hasMedia := m.session.HasMedia()
	m.mu.Unlock()

	if action == ActionGenerateText && hasMedia {
		return m.beginTextGeneration(ctx, index)
	}
	return m.beginMediaGeneration(ctx)
}
