package object

import "testing"

func TestPutOwnDataDefaultsToAllTrue(t *testing.T) {
	o := New(nil)
	o.PutOwnData("x", Number(1))
	if !o.IsConfigurable("x") || !o.IsEnumerable("x") || !o.IsWritable("x") {
		t.Fatalf("expected a freshly put property to default to configurable/enumerable/writable")
	}
}

func TestOwnKeysPreservesInsertionOrder(t *testing.T) {
	o := New(nil)
	o.PutOwnData("b", Number(2))
	o.PutOwnData("a", Number(1))
	o.PutOwnData("c", Number(3))
	got := o.OwnKeys()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSetAccessorIsReflectedInOwnKeysOnce(t *testing.T) {
	o := New(nil)
	getter := NewWithClass(nil, "Function")
	o.SetAccessor("count", getter, nil)
	o.SetAccessor("count", getter, nil)
	n := 0
	for _, k := range o.OwnKeys() {
		if k == "count" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one 'count' entry, got %d", n)
	}
}

func TestArrayLengthTruncatesHigherIndices(t *testing.T) {
	a := NewArray(nil)
	a.PutOwnData("0", Number(10))
	a.PutOwnData("1", Number(20))
	a.PutOwnData("2", Number(30))
	a.SetLength(3)

	a.SetLength(1)
	if _, ok := a.GetOwn("1"); ok {
		t.Fatalf("expected index 1 to be deleted after truncating length to 1")
	}
	if _, ok := a.GetOwn("0"); !ok {
		t.Fatalf("expected index 0 to survive truncation")
	}
	if a.Length() != 1 {
		t.Fatalf("Length() = %d, want 1", a.Length())
	}
}

func TestBumpLengthForIndexGrowsButNeverShrinks(t *testing.T) {
	a := NewArray(nil)
	a.BumpLengthForIndex(4)
	if a.Length() != 5 {
		t.Fatalf("Length() = %d, want 5", a.Length())
	}
	a.BumpLengthForIndex(0)
	if a.Length() != 5 {
		t.Fatalf("Length() = %d, want still 5", a.Length())
	}
}

func TestArrayIndexRejectsLeadingZerosAndNonDigits(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"0", true},
		{"7", true},
		{"07", false},
		{"-1", false},
		{"1.5", false},
		{"", false},
	}
	for _, c := range cases {
		_, ok := ArrayIndex(c.name)
		if ok != c.ok {
			t.Fatalf("ArrayIndex(%q) ok = %v, want %v", c.name, ok, c.ok)
		}
	}
}
