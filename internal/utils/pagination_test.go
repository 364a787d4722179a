package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, 20},
		{"3", "50", 3, 50},
		{"0", "0", 1, 1},
		{"-2", "500", 1, 100},
		{"x", "y", 1, 20},
	}
	for _, tc := range cases {
		p, s := ParsePage(tc.page, tc.size, 20, 100)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("ParsePage(%q, %q) = %d, %d; want %d, %d", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[[2]int]int{{0, 10}: 0, {1, 10}: 1, {10, 10}: 1, {11, 10}: 2, {5, 0}: 0}
	for in, want := range cases {
		if got := TotalPages(int64(in[0]), in[1]); got != want {
			t.Fatalf("TotalPages(%d, %d) = %d; want %d", in[0], in[1], got, want)
		}
	}
}
