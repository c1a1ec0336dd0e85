package numfmt

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{in: "1.234,56", want: "1234.56", valid: true},
		{in: "R$ 0,00", want: "0", valid: true},
		{in: "50,5", want: "50.5", valid: true},
		{in: "  172 ", want: "172", valid: true},
		{in: "1.000.000", want: "1000000", valid: true},
		{in: "-12,30", want: "-12.3", valid: true},
		{in: "", valid: false},
		{in: "abc", valid: false},
		{in: "12,3,4", valid: false},
		{in: "1e5", valid: false},
		{in: "1,234.56", valid: false},
		{in: "R$ 1,5.0", valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseMoney(tc.in)
			if got.Valid != tc.valid {
				t.Fatalf("valid = %v, want %v", got.Valid, tc.valid)
			}
			if tc.valid && !got.Decimal.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("got %s, want %s", got.Decimal, tc.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{in: "172.5", want: "172.5", valid: true},
		{in: "1e+06", want: "1000000", valid: true},
		{in: "1.234,56", want: "1234.56", valid: true},
		{in: "100", want: "100", valid: true},
		{in: "1.2.3", valid: false},
		{in: "nan", valid: false},
		{in: "1,234.56", valid: false},
		{in: "12,345,678.9", valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseDecimal(tc.in)
			if got.Valid != tc.valid {
				t.Fatalf("valid = %v, want %v", got.Valid, tc.valid)
			}
			if tc.valid && !got.Decimal.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("got %s, want %s", got.Decimal, tc.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0,00",
		"5":          "5,00",
		"172":        "172,00",
		"1234.5":     "1.234,50",
		"1234567.89": "1.234.567,89",
		"-1234.5":    "-1.234,50",
		"0.005":      "0,01",
	}
	for in, want := range cases {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	values := []string{"0", "0.01", "9.99", "100", "1000", "72.00", "123456.78", "999999999.99"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		text := FormatMoney(d)
		back := ParseMoney(text)
		if !back.Valid {
			t.Fatalf("ParseMoney(%q) is absent", text)
		}
		if back.Decimal.Sub(d).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
			t.Fatalf("round trip of %s gave %s", v, back.Decimal)
		}
		if FormatMoney(back.Decimal) != text {
			t.Fatalf("format is not idempotent for %s", v)
		}
	}
}

func TestIntegerGrouped(t *testing.T) {
	for _, n := range []int64{0, 7, 999, 1000, 12345, 123456, 1234567, 9876543210} {
		text := FormatIntegerGrouped(n)
		got, ok := ParseIntegerGrouped(text)
		if !ok || got != n {
			t.Fatalf("round trip of %d via %q gave %d (ok=%v)", n, text, got, ok)
		}
	}

	if got := FormatIntegerGrouped(123456); got != "123.456" {
		t.Fatalf("got %q", got)
	}
	if got := FormatIntegerGrouped(-1234); got != "-1.234" {
		t.Fatalf("got %q", got)
	}

	for _, bad := range []string{"", "12a", "km", "-5"} {
		if _, ok := ParseIntegerGrouped(bad); ok {
			t.Errorf("ParseIntegerGrouped(%q) should be absent", bad)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("(21) 99757-0103"); got != "21997570103" {
		t.Fatalf("got %q", got)
	}
	if got := DigitsOnly("abc"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestMasks(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"phone full", FormatPhone, "21997570103", "(21) 99757-0103"},
		{"phone partial", FormatPhone, "21997", "(21) 997"},
		{"phone short", FormatPhone, "21", "21"},
		{"phone too long", FormatPhone, "219975701039999", "(21) 99757-0103"},
		{"cpf", FormatTaxID, "12345678901", "123.456.789-01"},
		{"cpf partial", FormatTaxID, "1234567", "123.456.7"},
		{"cnpj", FormatTaxID, "48969894000159", "48.969.894/0001-59"},
		{"cnpj partial", FormatTaxID, "489698940001", "48.969.894/0001"},
		{"cep", FormatCEP, "20000000", "20000-000"},
		{"cep partial", FormatCEP, "200", "200"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.fn(tc.in)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
			if again := tc.fn(got); again != got {
				t.Fatalf("mask is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func assertMoneyRoundTrip(t *testing.T, d decimal.Decimal) {
	t.Helper()
	text := FormatMoney(d)
	back := ParseMoney(text)
	if !back.Valid {
		t.Fatalf("ParseMoney(%q) is absent", text)
	}
	if back.Decimal.Sub(d).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("round trip of %s via %q gave %s", d, text, back.Decimal)
	}
	if FormatMoney(back.Decimal) != text {
		t.Fatalf("format is not idempotent for %s", d)
	}
	if again := ParseDecimal(text); !again.Valid || !again.Decimal.Equal(back.Decimal) {
		t.Fatalf("ParseDecimal(%q) = %v, want %s", text, again, back.Decimal)
	}
}

func TestMoneyRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(2026, 10))
	for i := 0; i < 5000; i++ {
		// Up to 10^12 with up to four decimal places.
		d := decimal.New(r.Int64N(10_000_000_000_000_000), -4)
		assertMoneyRoundTrip(t, d)
	}
}

func TestIntegerGroupedRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(2026, 16))
	for i := 0; i < 5000; i++ {
		n := r.Int64N(1 << 62)
		if i%2 == 0 {
			n = r.Int64N(100_000)
		}
		text := FormatIntegerGrouped(n)
		got, ok := ParseIntegerGrouped(text)
		if !ok || got != n {
			t.Fatalf("round trip of %d via %q gave %d (ok=%v)", n, text, got, ok)
		}
	}
}

func FuzzMoneyRoundTrip(f *testing.F) {
	f.Add(uint64(0), uint8(0))
	f.Add(uint64(172), uint8(0))
	f.Add(uint64(1234), uint8(56))
	f.Add(uint64(999999999999), uint8(99))
	f.Fuzz(func(t *testing.T, units uint64, cents uint8) {
		if units > 1_000_000_000_000_000 {
			t.Skip()
		}
		d := decimal.NewFromUint64(units).Add(decimal.New(int64(cents%100), -2))
		assertMoneyRoundTrip(t, d)
	})
}

func FuzzIntegerGrouped(f *testing.F) {
	for _, n := range []int64{0, 7, 1000, 123456, 9876543210} {
		f.Add(n)
	}
	f.Fuzz(func(t *testing.T, n int64) {
		if n < 0 {
			t.Skip()
		}
		text := FormatIntegerGrouped(n)
		got, ok := ParseIntegerGrouped(text)
		if !ok || got != n {
			t.Fatalf("round trip of %d via %q gave %d (ok=%v)", n, text, got, ok)
		}
	})
}
