package logline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStringify verifies payload conversion, including nil normalization.
func TestStringify(t *testing.T) {
	t.Parallel()

	require.Equal(t, NullText, Stringify(nil))
	require.Equal(t, "text", Stringify("text"))
	require.Equal(t, "boom", Stringify(errors.New("boom")))
	require.Equal(t, "42", Stringify(42))
	require.Equal(t, "info", Stringify(SeverityInfo))
}

// nilStringer dereferences its receiver.
type nilStringer struct{ name string }

// String panics on a nil receiver.
func (s *nilStringer) String() string { return s.name }

// nilError dereferences its receiver.
type nilError struct{ reason string }

// Error panics on a nil receiver.
func (e *nilError) Error() string { return e.reason }

// brokenStringer always panics.
type brokenStringer struct{}

// String panics.
func (brokenStringer) String() string { panic("broken") }

// TestStringify_TypedNil turns typed nil payloads into NullText instead of calling their methods.
func TestStringify_TypedNil(t *testing.T) {
	t.Parallel()

	var (
		stringer *nilStringer
		err      error = (*nilError)(nil)
		table    map[string]int
		list     []string
		fn       func()
	)

	for _, v := range []any{stringer, err, table, list, fn, (chan int)(nil)} {
		require.NotPanics(t, func() {
			require.Equal(t, NullText, Stringify(v))
		})
		require.True(t, IsNull(v))
	}

	require.Equal(t, "set", Stringify(&nilStringer{name: "set"}))
	require.Equal(t, "why", Stringify(&nilError{reason: "why"}))
	require.False(t, IsNull(0))
	require.False(t, IsNull(""))
}

// TestStringify_PanickingMethod reports a panicking String method inline.
func TestStringify_PanickingMethod(t *testing.T) {
	t.Parallel()

	var text string

	require.NotPanics(t, func() {
		text = Stringify(brokenStringer{})
	})
	require.Contains(t, text, "PANIC")
	require.Contains(t, text, "broken")
}

// TestOriginTag verifies spaces are replaced and nil origins render empty.
func TestOriginTag(t *testing.T) {
	t.Parallel()

	require.Empty(t, (*Origin)(nil).Tag())
	require.Equal(t, "My_Cool_Plugin", (&Origin{Name: "My Cool Plugin"}).Tag())
}

// TestOriginClone verifies that Clone returns a copy and handles nil safely.
func TestOriginClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Origin)(nil).Clone())

	o := &Origin{Name: "Core", Color: Magenta}
	c := o.Clone()

	require.Equal(t, o, c)
	require.NotSame(t, o, c)
}

// TestParseColor checks hex values, names and rejection of unknown input.
func TestParseColor(t *testing.T) {
	t.Parallel()

	cases := map[string]Color{
		"#12abEF":    Color("#12abEF"),
		"Cyan":       Cyan,
		"indian red": IndianRed,
		"LIME_GREEN": LimeGreen,
		"light-gray": LightGray,
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseColor("#12345")
	require.Error(t, err)

	_, err = ParseColor("chartreuse")
	require.Error(t, err)
}
