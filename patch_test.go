package savedata

import (
	"testing"
)

const patchBase = "# campaign\nplayer=\"FRA\"\nstats={\n\twins=3\n}\n"

// Patch goes through the JSON form and back, so the result is fully
// canonical: trivia is gone, values respell, and patched objects come
// back with their keys sorted.
func TestPatch(t *testing.T) {
	d := load(t, patchBase)
	patch := `[
		{"op":"replace","path":"/stats/wins","value":5},
		{"op":"add","path":"/flag","value":true}
	]`
	if err := d.Patch([]byte(patch)); err != nil {
		t.Fatal(err)
	}
	want := "flag=yes\nplayer=FRA\nstats={\n\twins=5\n}\n"
	if got := string(d.Serialize()); got != want {
		t.Fatalf("# out\n%q\n# want\n%q", got, want)
	}
}

func TestPatchRemove(t *testing.T) {
	d := load(t, patchBase)
	if err := d.Patch([]byte(`[{"op":"remove","path":"/stats"}]`)); err != nil {
		t.Fatal(err)
	}
	if got := string(d.Serialize()); got != "player=FRA\n" {
		t.Fatalf("# out\n%q", got)
	}
}

// A failing test op rejects the whole patch; the document keeps its
// bytes, comment included.
func TestPatchTestOpFails(t *testing.T) {
	d := load(t, patchBase)
	patch := `[
		{"op":"test","path":"/player","value":"ENG"},
		{"op":"remove","path":"/stats"}
	]`
	if err := d.Patch([]byte(patch)); err == nil {
		t.Fatal("failing test op accepted")
	}
	if got := string(d.Serialize()); got != patchBase {
		t.Errorf("# out\n%q", got)
	}
}

func TestPatchBadDocument(t *testing.T) {
	d := load(t, patchBase)
	if err := d.Patch([]byte(`{"not":"a patch"}`)); err == nil {
		t.Error("object accepted as patch")
	}
	if got := string(d.Serialize()); got != patchBase {
		t.Errorf("# out\n%q", got)
	}
}

// Duplicate keys collapse into one sequence-valued key on the way
// through the JSON form; Patch inherits that.
func TestPatchCollapsesDuplicates(t *testing.T) {
	d := load(t, "army={ 1 }\narmy={ 2 }\n")
	if err := d.Patch([]byte(`[{"op":"add","path":"/x","value":1}]`)); err != nil {
		t.Fatal(err)
	}
	want := "army={\n\t{ 1 }\n\t{ 2 }\n}\nx=1\n"
	if got := string(d.Serialize()); got != want {
		t.Fatalf("# out\n%q\n# want\n%q", got, want)
	}
}
