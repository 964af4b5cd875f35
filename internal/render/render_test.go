package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-sysreport/internal/collector"
)

func sampleReport() *collector.Report {
	return collector.NewReport(time.Date(2024, 5, 3, 14, 30, 0, 0, time.UTC), []collector.Field{
		{Name: collector.FieldComputerName, Value: "host"},
		{Name: collector.FieldIPAddress, Value: "10.1.2.3"},
		{Name: collector.FieldLatestUpdate, Value: collector.NoUpdatesFound},
	})
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport()))

	assert.Equal(t,
		"Computer Name:  host\n"+
			"   IP Address:  10.1.2.3\n"+
			"Latest Update:  No Updates Found\n",
		buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleReport()))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "}\n"))
	name := strings.Index(out, `"Computer Name"`)
	ip := strings.Index(out, `"IP Address"`)
	update := strings.Index(out, `"Latest Update"`)
	assert.True(t, name >= 0 && name < ip && ip < update, out)
	assert.Contains(t, out, `  "IP Address": "10.1.2.3"`)
}

func TestQRCodes(t *testing.T) {
	var buf bytes.Buffer
	err := QRCodes(&buf, []Code{
		{Label: "Android", URL: "https://play.google.com/store/apps/details?id=com.example"},
		{Label: "Broken", URL: ""},
		{Label: "iOS", URL: "https://apps.apple.com/us/app/example"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")

	out := buf.String()
	assert.Contains(t, out, "Android\n")
	assert.Contains(t, out, "iOS\n")
	assert.NotContains(t, out, "Broken")
}
