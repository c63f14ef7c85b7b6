package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genricoloni/playstatus/internal/domain"
)

// ParseColor parses the persisted "r g b" form with 16-bit channels
func ParseColor(s string) (domain.RGB, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return domain.Black, fmt.Errorf("color %q: want 3 components, got %d", s, len(fields))
	}

	var ch [3]uint16
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return domain.Black, fmt.Errorf("color %q: component %d: %w", s, i, err)
		}
		ch[i] = uint16(v)
	}
	return domain.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// FormatColor renders c in the persisted "r g b" form
func FormatColor(c domain.RGB) string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}
