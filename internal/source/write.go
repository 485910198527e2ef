package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/moby/sys/atomicwriter"

	"flutterdeploy/internal/version"
)

// ErrWriteVerification is wrapped by every VerificationError.
var ErrWriteVerification = errors.New("write verification failed")

// VerificationError reports a file that did not read back the version just
// written to it.
type VerificationError struct {
	Source Source
	Path   string
	Want   version.Tuple
	Got    ExtractionResult
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s (%s): wrote %s, read back %s", e.Source, e.Path, e.Want, e.Got.Describe())
}

func (e *VerificationError) Unwrap() error {
	return ErrWriteVerification
}

type rewriteFunc func(content string, v version.Tuple) (string, error)

// TargetPath returns the file Write would modify for src.
func TargetPath(l Layout, src Source) (string, error) {
	path, _, err := writeTarget(l, src)
	return path, err
}

func writeTarget(l Layout, src Source) (string, rewriteFunc, error) {
	switch src {
	case ProjectManifest:
		return l.abs(l.Manifest), rewriteManifest, nil
	case AndroidBuildDescriptor:
		path, rw := androidWriteTarget(l)
		return path, rw, nil
	case IOSPropertyList:
		return l.abs(l.IOSPlist), rewritePlist, nil
	case IOSProjectDescriptor:
		return l.abs(l.IOSProject), rewriteXcodeProject, nil
	}
	return "", nil, fmt.Errorf("%s is not a writable source", src)
}

// Rewrite returns the current and updated content of the file Write would
// modify for src, without touching the disk.
func Rewrite(l Layout, src Source, v version.Tuple) (path, before, after string, err error) {
	path, rewrite, err := writeTarget(l, src)
	if err != nil {
		return "", "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", "", fmt.Errorf("%s: %w", src, err)
	}
	updated, err := rewrite(string(data), v)
	if err != nil {
		return path, "", "", fmt.Errorf("%s: %s: %w", src, path, err)
	}
	return path, string(data), updated, nil
}

// Write rewrites the version fields of one source in place, preserving every
// other byte, then re-extracts the source and checks it reads back v.
// Writing the same tuple twice leaves the file byte-identical.
func Write(l Layout, src Source, v version.Tuple) error {
	path, before, after, err := Rewrite(l, src, v)
	if err != nil {
		return err
	}
	if after != before {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		if err := atomicwriter.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
			return fmt.Errorf("%s: write %s: %w", src, path, err)
		}
	}

	got := Extract(l, src)
	if !got.OK() || *got.Parsed != v {
		return &VerificationError{Source: src, Path: path, Want: v, Got: got}
	}
	return nil
}
