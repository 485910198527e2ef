package release

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flutterdeploy/internal/version"
)

func TestTagName(t *testing.T) {
	tests := []struct {
		android version.Tuple
		ios     version.Tuple
		want    string
	}{
		{version.New(1, 2, 0, 5), version.New(1, 2, 0, 5), "live_android-v1.2.0(5)_ios-v1.2.0(5)"},
		{version.New(2, 0, 1, 40), version.New(2, 0, 0, 7), "live_android-v2.0.1(40)_ios-v2.0.0(7)"},
		{version.New(0, 0, 0, 1), version.New(10, 11, 12, 13), "live_android-v0.0.0(1)_ios-v10.11.12(13)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TagName(tt.android, tt.ios))
		})
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

func gitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_AUTHOR_NAME", "fdk")
	t.Setenv("GIT_AUTHOR_EMAIL", "fdk@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "fdk")
	t.Setenv("GIT_COMMITTER_EMAIL", "fdk@example.com")

	dir := t.TempDir()
	git(t, dir, "init", "-q")
	git(t, dir, "commit", "-q", "--allow-empty", "-m", "initial")
	return dir
}

func TestGitSink_TagAndPush(t *testing.T) {
	dir := gitRepo(t)
	remote := t.TempDir()
	git(t, remote, "init", "-q", "--bare")
	git(t, dir, "remote", "add", "origin", remote)

	name := TagName(version.New(1, 2, 0, 5), version.New(1, 2, 0, 5))
	sink := &GitSink{Dir: dir}
	ctx := context.Background()

	require.NoError(t, sink.Tag(ctx, name, "Release 1.2.0"))
	assert.Equal(t, name, git(t, dir, "tag", "--list"))
	assert.Equal(t, "tag", git(t, dir, "cat-file", "-t", name), "tag should be annotated")

	require.NoError(t, sink.Push(ctx, name))
	assert.Equal(t, name, git(t, remote, "tag", "--list"))
}

func TestGitSink_DuplicateTagFails(t *testing.T) {
	dir := gitRepo(t)
	sink := &GitSink{Dir: dir}
	ctx := context.Background()

	require.NoError(t, sink.Tag(ctx, "live_android-v1.0.0(1)_ios-v1.0.0(1)", "first"))
	err := sink.Tag(ctx, "live_android-v1.0.0(1)_ios-v1.0.0(1)", "again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git tag failed")
}

func TestGitSink_PushUnknownRemote(t *testing.T) {
	dir := gitRepo(t)
	sink := &GitSink{Dir: dir, Remote: "nowhere"}
	ctx := context.Background()

	require.NoError(t, sink.Tag(ctx, "v-test", "test"))
	assert.Error(t, sink.Push(ctx, "v-test"))
}
