package intent

import (
	"strconv"
	"strings"

	"spark/internal/calc"
)

// extract applies one extraction recipe to a pattern's submatches.
// The returned bool reports whether the recipe was satisfied; optional
// recipes (location, track) are satisfied even when the slot stays empty.
func extract(kind Extraction, m []string) (Entities, bool) {
	switch kind {
	case ExtractNone:
		return Entities{}, true
	case ExtractAppName:
		name := cleanObject(group(m, 1))
		return Entities{AppName: name}, name != ""
	case ExtractQuery:
		q := strings.TrimSpace(group(m, 1))
		return Entities{Query: q}, q != ""
	case ExtractDuration:
		secs, ok := parseDuration(group(m, 1), group(m, 2))
		return Entities{DurationSeconds: secs}, ok
	case ExtractLocation:
		return Entities{Location: cleanObject(group(m, 1))}, true
	case ExtractTrack:
		return Entities{Track: cleanObject(group(m, 1))}, true
	case ExtractExpression:
		expr := strings.TrimSpace(group(m, 1))
		if expr == "" || calc.Validate(expr) != nil {
			return Entities{}, false
		}
		return Entities{Expression: expr}, true
	default:
		return Entities{}, false
	}
}

func group(m []string, i int) string {
	if i < len(m) {
		return m[i]
	}
	return ""
}

// cleanObject strips leading articles and surrounding whitespace from a
// captured object ("the calculator" -> "calculator").
func cleanObject(s string) string {
	s = strings.TrimSpace(s)
	for _, article := range []string{"the ", "a ", "an ", "my "} {
		if strings.HasPrefix(s, article) {
			s = strings.TrimSpace(strings.TrimPrefix(s, article))
			break
		}
	}
	return s
}

// parseDuration normalizes "<amount> <unit>" to whole seconds.
// "5 minutes" -> 300, "30 seconds" -> 30, "1.5 hours" -> 5400.
func parseDuration(amount, unit string) (int, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	var mult float64
	switch {
	case strings.HasPrefix(unit, "sec"):
		mult = 1
	case strings.HasPrefix(unit, "min"):
		mult = 60
	case strings.HasPrefix(unit, "hour"), strings.HasPrefix(unit, "hr"):
		mult = 3600
	default:
		return 0, false
	}

	secs := int(value * mult)
	if secs <= 0 {
		return 0, false
	}
	return secs, true
}
