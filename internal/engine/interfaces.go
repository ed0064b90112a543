package engine

import (
	"context"

	"github.com/Veraticus/lovetype/internal/model"
)

// Resolver maps user input onto the type catalog.
type Resolver interface {
	Categories(ctx context.Context) ([]model.CategoryLabel, error)
	Resolve(ctx context.Context, input string) (model.CategoryLabel, error)
}

// Scorer fetches the compatibility payload for an ordered pair.
type Scorer interface {
	RequestScore(ctx context.Context, primary, partner model.CategoryLabel) (*model.CompatibilityPayload, error)
}
