package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pullrefresh/internal/model"
)

// Demo is a synthetic history of Total commits. Each page takes Latency to
// arrive, standing in for a slow network call. Refreshes prepend Growth new
// commits so a pull-to-refresh visibly changes the list.
type Demo struct {
	Total   int
	Latency time.Duration
	Growth  int

	mu         sync.Mutex
	generation int
}

// Page returns commits newest first.
func (d *Demo) Page(ctx context.Context, skip, n int) (model.Page, error) {
	if d.Latency > 0 {
		t := time.NewTimer(d.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return model.Page{}, ctx.Err()
		case <-t.C:
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if skip == 0 {
		d.generation++
	}
	total := d.Total + max(d.generation-1, 0)*d.Growth
	page := model.Page{Skip: skip}
	for i := skip; i < total && len(page.Commits) < n; i++ {
		seq := total - i
		page.Commits = append(page.Commits, model.Commit{
			Hash:    fmt.Sprintf("%040x", seq*2654435761),
			Author:  "demo",
			When:    fmt.Sprintf("%d minutes ago", i+1),
			Subject: fmt.Sprintf("Demo change #%d", seq),
		})
	}
	page.More = skip+len(page.Commits) < total
	return page, nil
}
