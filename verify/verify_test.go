package verify

import (
	"errors"
	"strings"
	"testing"

	"github.com/106-/paradox-savedata-parser/parse"
)

func TestRoundTrip(t *testing.T) {
	docs := []string{
		"",
		"a=1",
		"date=1444.11.11\nplayer=\"FRA\"\n",
		"# header\n\na = 1\t# trailing\nb =\t{ 1 2 3 }\n",
		"\ufeffEU4txt\ndate=1444.11.11\r\nflags={\n\todd_spacing   =    yes\n}\r\n",
		"dup=1\ndup=2\ndup=3\n",
		"deep={ a={ b={ c={ d=1 } } } }\n",
	}
	for _, src := range docs {
		if err := RoundTrip([]byte(src)); err != nil {
			t.Errorf("# doc\n%q\n%v", src, err)
		}
	}
}

func TestRoundTripParseError(t *testing.T) {
	err := RoundTrip([]byte("a=\"unterminated"))
	var se *parse.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want syntax error, got %v", err)
	}
}

// Lenient recovery keeps skipped bytes in the neighboring spans, so
// even a damaged save round-trips.
func TestRoundTripLenient(t *testing.T) {
	src := "a=1\nbroken=\"oops\nc=3\n"
	if err := RoundTrip([]byte(src), parse.Lenient()); err != nil {
		t.Fatal(err)
	}
}

func TestDiff(t *testing.T) {
	want := "a=1\nb=2\nc=3\nd=4\ne=5\nf=6\ng=7\n"
	got := strings.Replace(want, "e=5", "e=50", 1)
	out := Diff(want, got)
	if !strings.Contains(out, "-e=5\n") || !strings.Contains(out, "+e=50\n") {
		t.Errorf("# diff\n%s", out)
	}
	// the long unchanged run before the change collapses
	if !strings.Contains(out, "unchanged") {
		t.Errorf("# diff\n%s", out)
	}
}

func TestMismatchError(t *testing.T) {
	m := &Mismatch{Offset: 7, Diff: "-a\n+b\n"}
	if !strings.Contains(m.Error(), "offset 7") {
		t.Errorf("message %q", m.Error())
	}
}
