package macros

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEquatable(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"@Equatable\nclass XXX {}", "extension XXX: Equatable {\n}"},
		{"@Equatable struct Point<T> { let x: T }", "extension Point: Equatable {\n}"},
		{"@Equatable enum E { case a }", "extension E: Equatable {\n}"},
		{"@Equatable actor A {}", "extension A: Equatable {\n}"},
		{"enum Outer {\n    @Equatable struct Inner {}\n}", "extension Outer.Inner: Equatable {\n}"},
	}
	for _, tc := range cases {
		f := parseFragment(t, tc.code)
		got := ExpandEquatable(f.attached(t, "Equatable"))
		require.Len(t, got, 1, tc.code)
		require.Equal(t, tc.want, got[0].Source)
	}
}

func TestEquatableRoundTrip(t *testing.T) {
	f := parseFragment(t, "@Equatable\nclass XXX {}")
	ext := ExpandEquatable(f.attached(t, "Equatable"))
	again := parseFragment(t, "class XXX {}\n\n"+ext[0].Source+"\n")
	require.Len(t, again.file.Decls, 2)
}
