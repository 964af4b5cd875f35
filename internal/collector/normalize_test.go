package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFQDN(t *testing.T) {
	tests := []struct {
		fqdn      string
		wantStore string
		wantDom   string
	}{
		{"host.1234.midwest.corp.example.com", "1234", "midwest.corp.example"},
		{"host.5678.region.tld", "5678", "region"},
		{"host.example.com", Unknown, Unknown},
		{"host", Unknown, Unknown},
		{"", Unknown, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.fqdn, func(t *testing.T) {
			got := SplitFQDN(tt.fqdn)
			assert.Equal(t, tt.wantStore, got.StoreNumber)
			assert.Equal(t, tt.wantDom, got.Domain)
		})
	}
}

func TestFormatGiB(t *testing.T) {
	tests := []struct {
		name  string
		bytes uint64
		f     SizeFormat
		want  string
	}{
		{"one gib rounded", bytesPerGiB, SizeRounded, "1 GB"},
		{"one gib decimal", bytesPerGiB, SizeDecimal, "1.00 GB"},
		{"half rounds to even", 256*bytesPerGiB + bytesPerGiB/2, SizeRounded, "256 GB"},
		{"odd half rounds up", 257*bytesPerGiB + bytesPerGiB/2, SizeRounded, "258 GB"},
		{"half decimal", 256*bytesPerGiB + bytesPerGiB/2, SizeDecimal, "256.50 GB"},
		{"typical ram", 17091194880, SizeRounded, "16 GB"},
		{"typical ram decimal", 17091194880, SizeDecimal, "15.92 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatGiB(tt.bytes, tt.f))
		})
	}
}

func TestFormatGiBMonotonic(t *testing.T) {
	prev := -1.0
	for _, n := range []uint64{1, 1024, 1024 * 1024, bytesPerGiB, 2 * bytesPerGiB, 1024 * bytesPerGiB} {
		got := float64(n) / bytesPerGiB
		assert.Greater(t, got, prev)
		prev = got
	}
	assert.Equal(t, "1024 GB", FormatGiB(1024*bytesPerGiB, SizeRounded))
}

func TestParseCompactTimestamp(t *testing.T) {
	got, err := ParseCompactTimestamp("20240503143000.000000-360")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 3, 14, 30, 0, 0, time.UTC), got)
	assert.Equal(t, "05/03/2024 14:30", FormatTimestamp(got))

	got, err = ParseCompactTimestamp("20231231235959")
	require.NoError(t, err)
	assert.Equal(t, "12/31/2023 23:59", FormatTimestamp(got))

	// Reformatting a parsed value and parsing again is stable.
	again, err := ParseCompactTimestamp(got.Format(compactLayout))
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestParseCompactTimestampMalformed(t *testing.T) {
	for _, raw := range []string{"", "2024", "2024050314300", "202405031430001", "20241303143000.0", "not-a-date.000"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseCompactTimestamp(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseSizeFormat(t *testing.T) {
	f, err := ParseSizeFormat("Decimal")
	require.NoError(t, err)
	assert.Equal(t, SizeDecimal, f)

	f, err = ParseSizeFormat("")
	require.NoError(t, err)
	assert.Equal(t, SizeRounded, f)

	_, err = ParseSizeFormat("truncated")
	assert.Error(t, err)
}
