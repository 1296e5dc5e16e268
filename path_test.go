package savedata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func key(k string) step { return step{kind: stepKey, key: k} }

func idx(i int) step { return step{kind: stepIndex, index: i} }

func wild() step { return step{kind: stepWild} }

func TestParsePath(t *testing.T) {
	type tc struct {
		in string
		e  []step
	}
	cases := []tc{
		{in: "a", e: []step{key("a")}},
		{in: "countries.FRA.treasury", e: []step{key("countries"), key("FRA"), key("treasury")}},
		{in: "army[1].morale", e: []step{key("army"), idx(1), key("morale")}},
		{in: "a[0][1]", e: []step{key("a"), idx(0), idx(1)}},
		{in: "[2]", e: []step{idx(2)}},
		// dotted numerics are keys, the id-block convention
		{in: "units.3.strength", e: []step{key("units"), key("3"), key("strength")}},
		{in: `events."1444.11.11".fired`, e: []step{key("events"), key("1444.11.11"), key("fired")}},
		{in: `flags["the key"]`, e: []step{key("flags"), key("the key")}},
		{in: `["a]b"].x`, e: []step{key("a]b"), key("x")}},
		{in: `"say \"hi\""`, e: []step{key(`say "hi"`)}},
		{in: "countries.*.treasury", e: []step{key("countries"), wild(), key("treasury")}},
		{in: "*", e: []step{wild()}},
		// bare segments are permissive outside '.' and '['
		{in: "has-dash.x_y", e: []step{key("has-dash"), key("x_y")}},
	}
	for _, c := range cases {
		got, err := parsePath(c.in)
		if err != nil {
			t.Errorf("# path %s\n%v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.e, got, cmp.AllowUnexported(step{})); d != "" {
			t.Errorf("# path %s\n# diff\n%s", c.in, d)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	cases := []string{
		"",
		".",
		"a.",
		"a..b",
		"a.[0]",
		"a[",
		"a[]",
		"a[-1]",
		"a[x]",
		"a[*]",
		"a[0]x",
		`"unterminated`,
		`a."b`,
	}
	for _, in := range cases {
		_, err := parsePath(in)
		if err == nil {
			t.Errorf("parsePath(%q): no error", in)
			continue
		}
		if !errors.Is(err, ErrBadPath) {
			t.Errorf("parsePath(%q): %v does not unwrap to ErrBadPath", in, err)
		}
	}
}

func TestSegText(t *testing.T) {
	type tc struct{ in, e string }
	cases := []tc{
		{in: "treasury", e: "treasury"},
		{in: "3", e: "3"},
		{in: "1444.11.11", e: `["1444.11.11"]`},
		{in: "the key", e: `["the key"]`},
		{in: "*", e: `["*"]`},
		{in: "", e: `[""]`},
	}
	for _, c := range cases {
		if got := segText(c.in); got != c.e {
			t.Errorf("segText(%q) = %s, want %s", c.in, got, c.e)
			continue
		}
		// the rendered segment must parse back to the same key
		steps, err := parsePath(segText(c.in))
		if err != nil {
			t.Errorf("segText(%q) does not reparse: %v", c.in, err)
			continue
		}
		if len(steps) != 1 || steps[0].kind != stepKey || steps[0].key != c.in {
			t.Errorf("segText(%q) reparsed to %+v", c.in, steps)
		}
	}
}
