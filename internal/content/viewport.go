// Package content adapts scrollable bubbles components to the edge queries
// the refresh engine asks of its content.
package content

import (
	"github.com/charmbracelet/bubbles/viewport"
)

// Viewport answers edge queries for a bubbles viewport. It reads through a
// pointer so the answers follow the host's live viewport.
type Viewport struct {
	vp *viewport.Model
}

// NewViewport wraps vp. vp must outlive the adapter.
func NewViewport(vp *viewport.Model) *Viewport {
	return &Viewport{vp: vp}
}

// CanScrollUp reports whether earlier lines are hidden above the view.
func (v *Viewport) CanScrollUp() bool {
	return v.vp != nil && !v.vp.AtTop()
}

// CanScrollDown reports whether later lines are hidden below the view.
func (v *Viewport) CanScrollDown() bool {
	return v.vp != nil && !v.vp.AtBottom()
}
