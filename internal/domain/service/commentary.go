package service

import (
	"context"

	"CurveScout/internal/domain/models"
)

// Commentator produces a short narrative for a scored signal, typically
// backed by an external alignment-commentary service. A run never fails
// on commentary errors; callers log and move on.
type Commentator interface {
	Comment(ctx context.Context, sig *models.Signal) (string, error)
}
