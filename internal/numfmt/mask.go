package numfmt

// Maximum digit counts of the masked identity fields.
const (
	maxPhoneDigits = 11
	maxCPFDigits   = 11
	maxTaxIDDigits = 14
	cepDigits      = 8
)

// FormatPhone masks a phone number as "(DD) NNNNN-NNNN". Input may
// already be masked; only its digits are used.
func FormatPhone(text string) string {
	d := truncate(DigitsOnly(text), maxPhoneDigits)
	if len(d) <= 2 {
		return d
	}
	out := "(" + d[:2] + ") "
	if len(d) > 7 {
		return out + d[2:7] + "-" + d[7:]
	}
	return out + d[2:]
}

// FormatTaxID masks a CPF (up to 11 digits) as "NNN.NNN.NNN-NN" or a
// CNPJ (12 to 14 digits) as "NN.NNN.NNN/NNNN-NN". Partial input is
// masked progressively.
func FormatTaxID(text string) string {
	d := truncate(DigitsOnly(text), maxTaxIDDigits)
	if len(d) <= maxCPFDigits {
		switch {
		case len(d) > 9:
			return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
		case len(d) > 6:
			return d[:3] + "." + d[3:6] + "." + d[6:]
		case len(d) > 3:
			return d[:3] + "." + d[3:]
		default:
			return d
		}
	}
	if len(d) > 12 {
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
}

// FormatCEP masks a postal code as "NNNNN-NNN".
func FormatCEP(text string) string {
	d := truncate(DigitsOnly(text), cepDigits)
	if len(d) > 5 {
		return d[:5] + "-" + d[5:]
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
