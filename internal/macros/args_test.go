package macros

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgumentLookup(t *testing.T) {
	f := parseFragment(t, `#m(method: "GET", "first", headers: h, "second", method: "PUT")`)
	in := f.freestanding(t)
	require.Len(t, in.Args, 5)

	first, ok := FirstUnlabeled(in.Args)
	require.True(t, ok)
	require.Equal(t, `"first"`, f.text(first.Span))

	method, ok := ByLabel(in.Args, "method")
	require.True(t, ok)
	require.Equal(t, `method: "GET"`, f.text(method.Span), "first match wins")

	_, ok = ByLabel(in.Args, "Method")
	require.False(t, ok, "labels are case-sensitive")
}

func TestArgumentLookupEmpty(t *testing.T) {
	_, ok := FirstUnlabeled(nil)
	require.False(t, ok)

	f := parseFragment(t, `#m(url: "x")`)
	_, ok = FirstUnlabeled(f.freestanding(t).Args)
	require.False(t, ok)
}
