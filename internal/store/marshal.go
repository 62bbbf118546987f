package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// encodeValues renders values as newline-separated decimal text.
// The shortest representation that round-trips exactly is used, so
// decodeValues(encodeValues(v)) == v bit for bit (NaN aside).
func encodeValues(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, "\n")
}

// decodeValues parses text written by encodeValues.
func decodeValues(text string) ([]float64, error) {
	if text == "" {
		return []float64{}, nil
	}
	lines := strings.Split(text, "\n")
	values := make([]float64, len(lines))
	for i, line := range lines {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("decode value %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// checksum is the hex xxhash64 of an encoded stack pair.
// A NUL separates the two texts; it never appears in encoded values.
func checksum(primary, secondary string) string {
	d := xxhash.New()
	_, _ = d.WriteString(primary)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(secondary)
	return fmt.Sprintf("%016x", d.Sum64())
}
