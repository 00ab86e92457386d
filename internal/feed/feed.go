// Package feed supplies pages of commits to the host UI.
package feed

import (
	"context"

	"pullrefresh/internal/model"
)

// Source returns up to n commits after skipping the newest skip commits.
type Source interface {
	Page(ctx context.Context, skip, n int) (model.Page, error)
}
