package bitmap

import "testing"

func TestBig(t *testing.T) {
	s := Make()

	if s.Size() != 0 || s.First() != -1 {
		t.Errorf("empty set: size %d, first %d", s.Size(), s.First())
	}

	s.Set(3)
	s.Set(70) // past the inline word

	if !s.IsSet(3) || !s.IsSet(70) || s.IsSet(4) || s.IsSet(1000) {
		t.Errorf("membership: %v %v %v %v", s.IsSet(3), s.IsSet(70), s.IsSet(4), s.IsSet(1000))
	}

	if s.Size() != 2 || s.First() != 3 {
		t.Errorf("size %d, first %d", s.Size(), s.First())
	}
}

func TestBigOr(t *testing.T) {
	a := MakeSize(100)
	a.Set(1)

	b := Make()
	b.Set(65)

	a.Or(b)

	if !a.IsSet(1) || !a.IsSet(65) || a.Size() != 2 {
		t.Errorf("got size %d", a.Size())
	}
}

func TestBigRange(t *testing.T) {
	s := Make()

	for _, i := range []int{5, 64, 2} {
		s.Set(i)
	}

	var got []int

	s.Range(func(i int) bool {
		got = append(got, i)

		return true
	})

	want := []int{2, 5, 64}

	if len(got) != len(want) {
		t.Fatalf("got %v, wanted %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, wanted %v", got, want)
		}
	}
}
