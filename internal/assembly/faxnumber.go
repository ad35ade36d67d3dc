package assembly

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFaxNumber is returned when a raw fax number does not reduce to
// exactly ten digits.
var ErrInvalidFaxNumber = errors.New("invalid fax number")

// StandardizeFaxNumber strips every non-digit character from raw and returns
// the result if exactly ten digits remain. Empty input fails the same way.
func StandardizeFaxNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) != 10 {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidFaxNumber)
	}
	return cleaned, nil
}
