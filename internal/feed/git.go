package feed

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"pullrefresh/internal/model"
)

// fieldSep separates fields in the git log format; git never emits it in
// the fields we request.
const fieldSep = "\x1f"

const logFormat = "--format=%H%x1f%an%x1f%ar%x1f%D%x1f%s"

// RepoRoot returns the absolute path of the git repository containing dir.
func RepoRoot(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GitLog pages through the history of the current branch of Repo.
type GitLog struct {
	Repo string
}

// Page runs git log for one page. It asks for one extra commit to learn
// whether another page exists.
func (g GitLog) Page(ctx context.Context, skip, n int) (model.Page, error) {
	if n <= 0 {
		return model.Page{Skip: skip}, nil
	}
	cmd := exec.CommandContext(ctx, "git", "-C", g.Repo, "log",
		fmt.Sprintf("--skip=%d", skip),
		fmt.Sprintf("--max-count=%d", n+1),
		logFormat,
	)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return model.Page{}, fmt.Errorf("git log: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return model.Page{}, fmt.Errorf("git log: %w", err)
	}
	commits := parseLog(string(out))
	page := model.Page{Skip: skip}
	if len(commits) > n {
		commits = commits[:n]
		page.More = true
	}
	page.Commits = commits
	return page, nil
}

func parseLog(raw string) []model.Commit {
	var commits []model.Commit
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if c := parseLine(line); c != nil {
			commits = append(commits, *c)
		}
	}
	return commits
}

func parseLine(line string) *model.Commit {
	fields := strings.SplitN(strings.TrimRight(line, "\r"), fieldSep, 5)
	if len(fields) != 5 || fields[0] == "" {
		return nil
	}
	return &model.Commit{
		Hash:    fields[0],
		Author:  fields[1],
		When:    fields[2],
		Refs:    fields[3],
		Subject: fields[4],
	}
}
