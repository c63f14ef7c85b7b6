package style

import (
	"strconv"
	"strings"

	"github.com/genricoloni/playstatus/internal/domain"
)

const (
	defaultFamily = "Sans"
	defaultSize   = 10
)

var weights = map[string]domain.FontWeight{
	"thin":        domain.WeightThin,
	"ultra-light": domain.WeightUltraLight,
	"extra-light": domain.WeightUltraLight,
	"light":       domain.WeightLight,
	"book":        domain.WeightBook,
	"regular":     domain.WeightNormal,
	"normal":      domain.WeightNormal,
	"medium":      domain.WeightMedium,
	"semi-bold":   domain.WeightSemiBold,
	"demi-bold":   domain.WeightSemiBold,
	"bold":        domain.WeightBold,
	"ultra-bold":  domain.WeightUltraBold,
	"extra-bold":  domain.WeightUltraBold,
	"heavy":       domain.WeightHeavy,
	"black":       domain.WeightHeavy,
}

// ParseFont parses a descriptor of the form "[FAMILY] [STYLE-WORDS] [SIZE]",
// e.g. "Sans Bold Italic 14". Missing parts take defaults; it never fails.
func ParseFont(descriptor string) domain.FontStyle {
	f := domain.FontStyle{
		Family: defaultFamily,
		Size:   defaultSize,
		Weight: domain.WeightNormal,
	}

	fields := strings.Fields(descriptor)
	if n := len(fields); n > 0 {
		if size, err := strconv.ParseFloat(strings.TrimSuffix(fields[n-1], "px"), 64); err == nil && size > 0 {
			f.Size = size
			fields = fields[:n-1]
		}
	}

	// Style words are only recognised after the family, scanning from the end
	end := len(fields)
	for end > 0 {
		word := strings.ToLower(fields[end-1])
		if w, ok := weights[word]; ok {
			f.Weight = w
		} else if word == "italic" || word == "oblique" {
			f.Italic = true
		} else {
			break
		}
		end--
	}

	if family := strings.Join(fields[:end], " "); family != "" {
		f.Family = strings.TrimSuffix(family, ",")
	}
	return f
}
