package diff

import (
	"strings"
	"testing"
)

func TestCompute_VersionLineChange(t *testing.T) {
	oldContent := "name: demo\ndescription: app\nversion: 1.0.0+1\n\nenvironment:\n  sdk: '>=3.0.0'\n"
	newContent := "name: demo\ndescription: app\nversion: 1.1.0+2\n\nenvironment:\n  sdk: '>=3.0.0'\n"

	d := Compute("pubspec.yaml", oldContent, newContent, DefaultContext)
	if len(d.Hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(d.Hunks))
	}

	want := `--- a/pubspec.yaml
+++ b/pubspec.yaml
@@ -1,6 +1,6 @@
 name: demo
 description: app
-version: 1.0.0+1
+version: 1.1.0+2
 
 environment:
   sdk: '>=3.0.0'
`
	if got := d.Unified(); got != want {
		t.Errorf("Unified mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompute_NoChanges(t *testing.T) {
	d := Compute("a.txt", "same\n", "same\n", DefaultContext)
	if !d.Empty() {
		t.Errorf("Expected no hunks, got %d", len(d.Hunks))
	}
	if d.Unified() != "" {
		t.Error("Unchanged file should render empty")
	}
}

func TestCompute_AppendedLine(t *testing.T) {
	oldContent := "sdk.dir=/opt/android\nflutter.sdk=/opt/flutter\n"
	newContent := oldContent + "flutter.versionName=1.0.0\n"

	d := Compute("local.properties", oldContent, newContent, DefaultContext)
	if len(d.Hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(d.Hunks))
	}
	h := d.Hunks[0]
	if h.OldStart != 1 || h.OldCount != 2 || h.NewStart != 1 || h.NewCount != 3 {
		t.Errorf("Unexpected hunk header: -%d,%d +%d,%d", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	}
	last := h.Lines[len(h.Lines)-1]
	if last.Type != LineAdded || last.Content != "flutter.versionName=1.0.0" {
		t.Errorf("Expected appended line last, got %+v", last)
	}
}

func TestCompute_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 30; i++ {
		line := "line"
		oldLines = append(oldLines, line)
		newLines = append(newLines, line)
	}
	oldLines[2], newLines[2] = "MARKETING_VERSION = 1.0.0;", "MARKETING_VERSION = 1.1.0;"
	oldLines[25], newLines[25] = "MARKETING_VERSION = 1.0.0;", "MARKETING_VERSION = 1.1.0;"

	d := Compute("project.pbxproj", strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), DefaultContext)
	if len(d.Hunks) != 2 {
		t.Fatalf("Expected 2 hunks, got %d", len(d.Hunks))
	}
	if d.Hunks[1].OldStart != 23 {
		t.Errorf("Expected second hunk at line 23, got %d", d.Hunks[1].OldStart)
	}
	for _, h := range d.Hunks {
		if h.OldCount != h.NewCount {
			t.Errorf("In-place rewrite should keep line counts equal, got -%d +%d", h.OldCount, h.NewCount)
		}
	}
}

func TestCompute_NearbyChangesMerge(t *testing.T) {
	oldContent := "a\nversionCode 1\nb\nversionName \"1.0.0\"\nc\n"
	newContent := "a\nversionCode 2\nb\nversionName \"1.1.0\"\nc\n"

	d := Compute("build.gradle", oldContent, newContent, DefaultContext)
	if len(d.Hunks) != 1 {
		t.Fatalf("Expected merged hunk, got %d", len(d.Hunks))
	}
	if d.Hunks[0].OldCount != 5 || d.Hunks[0].NewCount != 5 {
		t.Errorf("Unexpected counts -%d +%d", d.Hunks[0].OldCount, d.Hunks[0].NewCount)
	}
}
