// Package orderid derives work order identifiers.
package orderid

import (
	"strconv"
	"strings"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

// Next returns the identifier following the largest numeric identifier
// in existing. Non-digit characters are ignored when reading an
// identifier, and identifiers without digits are skipped.
func Next(existing []string) string {
	var highest int64
	for _, id := range existing {
		digits := numfmt.DigitsOnly(id)
		if digits == "" {
			continue
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return Pad(strconv.FormatInt(highest+1, 10))
}

// Pad left-pads a digits-only identifier with zeros to the fixed width.
// Any other input is returned trimmed but otherwise unchanged.
func Pad(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || numfmt.DigitsOnly(id) != id {
		return id
	}
	if len(id) >= model.IDWidth {
		return id
	}
	return strings.Repeat("0", model.IDWidth-len(id)) + id
}
