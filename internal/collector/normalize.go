package collector

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	compactLayout = "20060102150405"
	displayLayout = "01/02/2006 15:04"

	bytesPerGiB = 1024 * 1024 * 1024
)

// SizeFormat selects how byte counts are rendered.
type SizeFormat string

const (
	// SizeRounded renders whole gibibytes, e.g. "16 GB".
	SizeRounded SizeFormat = "rounded"
	// SizeDecimal renders two decimals, e.g. "15.89 GB".
	SizeDecimal SizeFormat = "decimal"
)

// ParseSizeFormat validates a size format name.
func ParseSizeFormat(s string) (SizeFormat, error) {
	switch SizeFormat(strings.ToLower(strings.TrimSpace(s))) {
	case SizeRounded, "":
		return SizeRounded, nil
	case SizeDecimal:
		return SizeDecimal, nil
	}
	return "", fmt.Errorf("unknown size format %q", s)
}

// FormatGiB converts a byte count to gibibytes and appends the " GB" suffix.
// Whole values are rounded half to even.
func FormatGiB(bytes uint64, f SizeFormat) string {
	gib := float64(bytes) / bytesPerGiB
	if f == SizeDecimal {
		return strconv.FormatFloat(gib, 'f', 2, 64) + " GB"
	}
	return strconv.FormatFloat(math.RoundToEven(gib), 'f', 0, 64) + " GB"
}

// ParseCompactTimestamp parses a YYYYMMDDHHMMSS[.fraction] timestamp.
// Anything from the first '.' on is discarded before parsing.
func ParseCompactTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if len(s) != len(compactLayout) {
		return time.Time{}, fmt.Errorf("malformed timestamp %q", raw)
	}
	t, err := time.Parse(compactLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", raw, err)
	}
	return t, nil
}

// FormatTimestamp renders t as MM/DD/YYYY HH:MM.
func FormatTimestamp(t time.Time) string {
	return t.Format(displayLayout)
}

// SplitFQDN extracts the store number and domain from a name shaped like
// host.store.region.domain.tld. Names with fewer than four labels yield
// Unknown for both.
func SplitFQDN(fqdn string) DomainMembership {
	labels := strings.Split(fqdn, ".")
	if len(labels) < 4 {
		return DomainMembership{StoreNumber: Unknown, Domain: Unknown}
	}
	return DomainMembership{
		StoreNumber: labels[1],
		Domain:      strings.Join(labels[2:len(labels)-1], "."),
	}
}
