package templates

import (
	"encoding/json"
	"strconv"
	"time"
)

// pageMonth is the month preselected on first load. Out of range values
// fall back to March.
func pageMonth(m time.Month) time.Month {
	if m < time.January || m > time.December {
		return time.March
	}
	return m
}

func months() []time.Month {
	out := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, m)
	}
	return out
}

// initialSignals seeds the Datastar store. month is a string so it
// round-trips through the select binding unchanged.
func initialSignals(m time.Month) (string, error) {
	b, err := json.Marshal(map[string]any{
		"month":      monthValue(pageMonth(m)),
		"search":     "",
		"page":       1,
		"perPage":    10,
		"totalPages": 0,
		"error":      "",
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func monthValue(m time.Month) string {
	return strconv.Itoa(int(m))
}
