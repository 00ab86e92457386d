package model

// Commit is one row of the history feed.
type Commit struct {
	Hash    string
	Author  string
	When    string // relative date as printed by git, e.g. "3 days ago"
	Subject string
	Refs    string // decorations, e.g. "HEAD -> main, origin/main"
}

// Short returns the abbreviated hash.
func (c Commit) Short() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Page is one slice of the feed returned by a source.
type Page struct {
	Commits []Commit
	// Skip is the number of newer commits that precede this page.
	Skip int
	// More is false once the source is exhausted.
	More bool
}
