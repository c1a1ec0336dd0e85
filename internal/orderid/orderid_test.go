package orderid

import "testing"

func TestNext(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty table", existing: nil, want: "000001"},
		{name: "mixed identifiers", existing: []string{"000007", "3", "abc12"}, want: "000013"},
		{name: "no digits anywhere", existing: []string{"abc", ""}, want: "000001"},
		{name: "wider than six digits", existing: []string{"1234567"}, want: "1234568"},
		{name: "sequential", existing: []string{"000001", "000002"}, want: "000003"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.existing); got != tc.want {
				t.Fatalf("Next(%v) = %q, want %q", tc.existing, got, tc.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	cases := map[string]string{
		"7":       "000007",
		" 42 ":    "000042",
		"000123":  "000123",
		"OS-9":    "OS-9",
		"":        "",
		"1234567": "1234567",
	}
	for in, want := range cases {
		if got := Pad(in); got != want {
			t.Errorf("Pad(%q) = %q, want %q", in, got, want)
		}
	}
}
