package release

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultRemote is pushed to when GitSink.Remote is empty.
const DefaultRemote = "origin"

// TagSink records release tags.
type TagSink interface {
	Tag(ctx context.Context, name, message string) error
	Push(ctx context.Context, name string) error
}

// GitSink creates annotated tags with the git binary.
type GitSink struct {
	Dir    string
	Remote string
	Logger *zap.Logger
}

func (g *GitSink) logger() *zap.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return zap.NewNop()
}

func (g *GitSink) remote() string {
	if g.Remote != "" {
		return g.Remote
	}
	return DefaultRemote
}

func (g *GitSink) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Tag creates an annotated tag at HEAD.
func (g *GitSink) Tag(ctx context.Context, name, message string) error {
	if err := g.run(ctx, "tag", "-a", name, "-m", message); err != nil {
		return err
	}
	g.logger().Info("Release tag created", zap.String("tag", name), zap.String("dir", g.Dir))
	return nil
}

// Push sends a single tag to the configured remote.
func (g *GitSink) Push(ctx context.Context, name string) error {
	remote := g.remote()
	if err := g.run(ctx, "push", remote, "refs/tags/"+name); err != nil {
		return err
	}
	g.logger().Info("Release tag pushed", zap.String("tag", name), zap.String("remote", remote))
	return nil
}
