package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Tuple
		wantErr bool
	}{
		{in: "1.2.0+3", want: New(1, 2, 0, 3)},
		{in: " 10.20.30+400 ", want: New(10, 20, 30, 400)},
		{in: "1.2+3", wantErr: true},
		{in: "1.2.0", wantErr: true},
		{in: "v1.2.0+3", wantErr: true},
		{in: "1.2.0+", wantErr: true},
		{in: "1.2.x+3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFormat), "error should wrap ErrInvalidFormat: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLoose_DefaultsBuild(t *testing.T) {
	got, err := ParseLoose("1.2.0")
	require.NoError(t, err)
	assert.Equal(t, New(1, 2, 0, DefaultBuild), got)

	got, err = ParseLoose("v2.0.1+7")
	require.NoError(t, err)
	assert.Equal(t, New(2, 0, 1, 7), got)

	_, err = ParseLoose("2.0")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFromParts(t *testing.T) {
	got, err := FromParts("1.0.0", "5")
	require.NoError(t, err)
	assert.Equal(t, New(1, 0, 0, 5), got)

	got, err = FromParts("1.0.0", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Build)

	_, err = FromParts("$(FLUTTER_BUILD_NAME)", "1")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = FromParts("1.0.0", "abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTupleFormatting(t *testing.T) {
	v := New(3, 1, 4, 15)
	if got := v.String(); got != "3.1.4+15" {
		t.Errorf("String() = %q, want 3.1.4+15", got)
	}
	if got := v.Name(); got != "3.1.4" {
		t.Errorf("Name() = %q, want 3.1.4", got)
	}
	if got := v.Code(); got != "15" {
		t.Errorf("Code() = %q, want 15", got)
	}
	if v.IsZero() {
		t.Error("IsZero() = true for non-zero tuple")
	}
}

var sample = []Tuple{
	New(0, 0, 0, 0),
	New(0, 0, 0, 1),
	New(1, 0, 0, 0),
	New(1, 2, 0, 1),
	New(1, 2, 0, 3),
	New(1, 2, 1, 0),
	New(1, 10, 0, 0),
	New(2, 0, 0, 0),
}

func TestCompare_Reflexive(t *testing.T) {
	for _, v := range sample {
		if got := Compare(v, v); got != Equal {
			t.Errorf("Compare(%s, %s) = %s, want equal", v, v, got)
		}
	}
}

func TestCompare_Antisymmetric(t *testing.T) {
	inverse := map[Classification]Classification{Higher: Lower, Lower: Higher, Equal: Equal}
	for _, a := range sample {
		for _, b := range sample {
			ab, ba := Compare(a, b), Compare(b, a)
			if ab == Unclassified {
				t.Fatalf("Compare(%s, %s) returned unclassified", a, b)
			}
			if inverse[ab] != ba {
				t.Errorf("Compare(%s, %s) = %s but Compare(%s, %s) = %s", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestCompare_Lexicographic(t *testing.T) {
	assert.Equal(t, Higher, Compare(New(1, 2, 0, 3), New(1, 2, 0, 1)))
	assert.Equal(t, Lower, Compare(New(1, 1, 0, 9), New(1, 2, 0, 1)))
	assert.Equal(t, Higher, Compare(New(1, 10, 0, 0), New(1, 9, 99, 99)))
	assert.Equal(t, Lower, Compare(New(0, 9, 9, 9), New(1, 0, 0, 0)))
}

func TestNext(t *testing.T) {
	cur := New(1, 2, 3, 7)
	tests := []struct {
		kind BumpKind
		want Tuple
	}{
		{Major, New(2, 0, 0, 8)},
		{Minor, New(1, 3, 0, 8)},
		{Patch, New(1, 2, 4, 8)},
		{Build, New(1, 2, 3, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := Next(cur, tt.kind)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, Higher, Compare(got, cur))
		})
	}
}

func TestNextFromStore_AlwaysHigher(t *testing.T) {
	for _, v := range sample {
		next := NextFromStore(v)
		if Compare(next, v) != Higher {
			t.Errorf("NextFromStore(%s) = %s, not higher", v, next)
		}
		if next.Name() != v.Name() {
			t.Errorf("NextFromStore(%s) changed marketing version to %s", v, next.Name())
		}
	}
	assert.Equal(t, New(1, 2, 0, 4), NextFromStore(New(1, 2, 0, 3)))

	top, err := ParseLoose("1.0.0+18446744073709551614")
	require.NoError(t, err)
	assert.Equal(t, MaxBuild, top.Build)
	assert.Equal(t, Higher, Compare(NextFromStore(top), top))
	assert.Equal(t, Higher, Compare(Next(top, Build), top))

	for _, s := range []string{"1.0.0+18446744073709551615", "1.0.0+99999999999999999999"} {
		_, err := ParseLoose(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, s)
	}
	_, err = FromParts("1.0.0", "18446744073709551615")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestHighestOf(t *testing.T) {
	assert.Equal(t, New(2, 0, 0, 0), HighestOf(sample))
	assert.Equal(t, New(1, 2, 0, 1), HighestOf([]Tuple{New(1, 2, 0, 1)}))
	assert.Panics(t, func() { HighestOf(nil) })
}

func TestMax(t *testing.T) {
	a, b := New(1, 0, 0, 2), New(1, 0, 0, 3)
	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, b, Max(b, a))
}

func TestParseBumpKind(t *testing.T) {
	for _, name := range []string{"major", "Minor", " patch ", "BUILD"} {
		if _, err := ParseBumpKind(name); err != nil {
			t.Errorf("ParseBumpKind(%q) error: %v", name, err)
		}
	}
	if _, err := ParseBumpKind("huge"); err == nil {
		t.Error("expected error for unknown bump kind")
	}
}
