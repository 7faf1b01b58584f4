package layout

import "testing"

func TestAlign8(t *testing.T) {
	cases := map[int]int{
		0:  0,
		1:  8,
		7:  8,
		8:  8,
		9:  16,
		16: 16,
		17: 24,
	}
	for in, want := range cases {
		if got := Align8(in); got != want {
			t.Errorf("Align8(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestAlign8U32(t *testing.T) {
	if got := Align8U32(23); got != 24 {
		t.Errorf("Align8U32(23) = %d, want 24", got)
	}
	if got := Align8U32(24); got != 24 {
		t.Errorf("Align8U32(24) = %d, want 24", got)
	}
}
