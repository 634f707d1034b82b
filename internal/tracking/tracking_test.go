package tracking

import "testing"

func TestItemName(t *testing.T) {
	cases := map[[2]string]string{
		{"sh010", "sh010_comp_v003"}: "sh010/sh010_comp_v003",
		{"", "edit_v001"}:            "edit_v001",
		{" sh020 ", " v2 "}:          "sh020/v2",
	}
	for in, want := range cases {
		if got := ItemName(in[0], in[1]); got != want {
			t.Fatalf("ItemName(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
