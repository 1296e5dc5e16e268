package ir

import "testing"

type dateTest struct {
	in string
	e  Date
	ok bool
}

func TestParseDate(t *testing.T) {
	dts := []dateTest{
		{in: "1444.11.11", e: Date{Year: 1444, Month: 11, Day: 11}, ok: true},
		{in: "1936.1.1.12", e: Date{Year: 1936, Month: 1, Day: 1, Hour: 12, HasHour: true}, ok: true},
		{in: "1.1.1", e: Date{Year: 1, Month: 1, Day: 1}, ok: true},
		{in: "1444.11", ok: false},
		{in: "1.2.3.4.5", ok: false},
		{in: "1444.11.xx", ok: false},
		{in: "", ok: false},
	}
	for i := range dts {
		dt := &dts[i]
		got, ok := ParseDate(dt.in)
		if ok != dt.ok {
			t.Errorf("%q: ok=%v, want %v", dt.in, ok, dt.ok)
			continue
		}
		if ok && got != dt.e {
			t.Errorf("%q: got %+v, want %+v", dt.in, got, dt.e)
		}
	}
}

func TestDateString(t *testing.T) {
	d := Date{Year: 1444, Month: 11, Day: 11}
	if s := d.String(); s != "1444.11.11" {
		t.Errorf("got %q", s)
	}
	d = Date{Year: 1936, Month: 1, Day: 1, Hour: 12, HasHour: true}
	if s := d.String(); s != "1936.1.1.12" {
		t.Errorf("got %q", s)
	}
}

func TestDateCompare(t *testing.T) {
	a := Date{Year: 1444, Month: 11, Day: 11}
	b := Date{Year: 1444, Month: 11, Day: 12}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatal("date ordering")
	}
	h := Date{Year: 1444, Month: 11, Day: 11, Hour: 0, HasHour: true}
	if a.Compare(h) != 0 {
		t.Fatal("missing hour should compare as hour zero")
	}
}
