package llm

import (
	"context"

	"github.com/wezza-dev/prembot/internal/models"
)

// Classifier assigns one intent label to an utterance. Implementations are
// black boxes to the dialogue manager: any failure degrades to the
// unrecognized intent at the router, never an aborted turn.
type Classifier interface {
	ClassifyIntent(ctx context.Context, text string) (models.Intent, error)
}
