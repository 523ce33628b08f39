package mathx

import "testing"

func TestFloorDiv_Mod_Identity(t *testing.T) {
	for _, b := range []int{2, 8, 16, 64} {
		for a := -200; a <= 200; a++ {
			q := FloorDiv(a, b)
			m := Mod(a, b)
			if m < 0 || m >= b {
				t.Fatalf("Mod(%d,%d) = %d out of range", a, b, m)
			}
			if q*b+m != a {
				t.Fatalf("FloorDiv/Mod identity broken for a=%d b=%d: q=%d m=%d", a, b, q, m)
			}
		}
	}
}

func TestFloorDiv_Negative(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{-1, 8, -1},
		{-8, 8, -1},
		{-9, 8, -2},
		{7, 8, 0},
		{8, 8, 1},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.want {
			t.Fatalf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	if Hash2(42, -3, 7) != Hash2(42, -3, 7) {
		t.Fatal("Hash2 not deterministic")
	}
	if Hash3(42, 1, 2, 3) == Hash3(43, 1, 2, 3) {
		t.Fatal("Hash3 ignores seed")
	}
	if Hash2(42, 0, 1) == Hash2(42, 1, 0) {
		t.Fatal("Hash2 symmetric in x/z")
	}
}
