package export

import (
	"strings"
	"testing"

	"github.com/106-/paradox-savedata-parser/ir"
	"github.com/106-/paradox-savedata-parser/parse"
)

func mustParse(t *testing.T, src string) *ir.Node {
	t.Helper()
	root, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return root
}

func TestJSON(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		e    string
	}{
		{
			"scalars",
			"a=1\nb=-2.5\nc=\"x y\"\nd=yes\ne=1444.11.11\n",
			`{"a":1,"b":-2.5,"c":"x y","d":true,"e":"1444.11.11"}`,
		},
		{
			"empty doc",
			"",
			`{}`,
		},
		{
			"nested blocks",
			"country={ tag=\"FRA\" treasury=100.5 }\n",
			`{"country":{"tag":"FRA","treasury":100.5}}`,
		},
		{
			"sequence",
			"owned={ 183 184 185 }\n",
			`{"owned":[183,184,185]}`,
		},
		{
			"empty block reads as sequence",
			"owned={}\n",
			`{"owned":[]}`,
		},
		{
			"duplicate keys collapse in place",
			"pre=0\narmy={ id=1 }\nmid=0\narmy={ id=2 }\npost=0\n",
			`{"pre":0,"army":[{"id":1},{"id":2}],"mid":0,"post":0}`,
		},
		{
			"hybrid items",
			"unit={ type=\"infantry\" 4 8 }\n",
			`{"unit":{"type":"infantry","_items":[4,8]}}`,
		},
		{
			"date keys stay text",
			"history={ 1444.11.11={ capital=183 } }\n",
			`{"history":{"1444.11.11":{"capital":183}}}`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := string(JSON(mustParse(t, tc.in)))
			if got != tc.e {
				t.Errorf("# json\n%s\n# want\n%s", got, tc.e)
			}
		})
	}
}

func TestFromJSONRoundTrip(t *testing.T) {
	// No duplicate keys here: their collapse into arrays is one-way.
	for _, in := range []string{
		"a=1\nb=-2.5\nc=\"x y\"\nd=yes\ne=1444.11.11\n",
		"country={ tag=\"FRA\" treasury=100.5 owned={ 183 184 } }\n",
		"unit={ type=\"infantry\" 4 8 }\n",
	} {
		root := mustParse(t, in)
		back, err := FromJSON(JSON(root))
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", in, err)
		}
		if !ir.Equal(root, back) {
			t.Errorf("round trip changed tree for %q:\n%s\nvs\n%s",
				in, JSON(root), JSON(back))
		}
	}
}

func TestFromJSONDateRevival(t *testing.T) {
	n, err := FromJSON([]byte(`{"start":"1444.11.11","name":"France"}`))
	if err != nil {
		t.Fatal(err)
	}
	start := ir.Get(n, "start")
	if start == nil || start.Kind != ir.DateKind {
		t.Fatalf("start = %+v, want date", start)
	}
	if got := start.Date.String(); got != "1444.11.11" {
		t.Errorf("start date %q", got)
	}
	if name := ir.Get(n, "name"); name == nil || name.Kind != ir.StringKind {
		t.Errorf("name = %+v, want string", ir.Get(n, "name"))
	}
}

func TestFromJSONNull(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":null}`))
	if err == nil || !strings.Contains(err.Error(), "null") {
		t.Errorf("err = %v, want null rejection", err)
	}
}

func TestFromJSONTrailing(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":1} {"b":2}`))
	if err == nil {
		t.Error("trailing JSON value accepted")
	}
}

func TestFromJSONEmptyObject(t *testing.T) {
	n, err := FromJSON([]byte(`{"a":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	a := ir.Get(n, "a")
	if a == nil || a.Kind != ir.MappingKind || len(a.Values) != 0 {
		t.Errorf("a = %+v, want empty mapping", a)
	}
}

func TestYAML(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		e    string
	}{
		{
			"flat scalars",
			"player=\"FRA\"\npity=3\nrich=yes\ntreasury=100.5\n",
			"player: FRA\npity: 3\nrich: true\ntreasury: 100.5\n",
		},
		{
			"duplicate keys",
			"army={ id=1 }\narmy={ id=2 }\n",
			"army:\n- id: 1\n- id: 2\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := YAML(mustParse(t, tc.in))
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tc.e {
				t.Errorf("# yaml\n%s\n# want\n%s", out, tc.e)
			}
		})
	}
}
