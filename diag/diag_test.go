package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportReachesSubscribers(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	var rec Recorder
	cancel := rec.Record(r)

	r.Report("colour", "invalid colour %q", "zz")
	require.Len(t, rec.Diagnostics(), 1)
	assert.Equal(t, "colour", rec.Diagnostics()[0].Source)
	assert.Equal(t, `invalid colour "zz"`, rec.Diagnostics()[0].Message)
	assert.Contains(t, buf.String(), "source=colour")

	cancel()
	r.Report("colour", "again")
	assert.Len(t, rec.Diagnostics(), 1)
	assert.Equal(t, 2, r.Count())
}

func TestLogOutputIsThrottled(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(slog.New(slog.NewTextHandler(&buf, nil)))

	var rec Recorder
	rec.Record(r)

	for i := 0; i < 100; i++ {
		r.Report("styliser", "line %d", i)
	}

	assert.Len(t, rec.Diagnostics(), 100)
	lines := strings.Count(buf.String(), "\n")
	assert.Less(t, lines, 100)
	assert.GreaterOrEqual(t, lines, 10)
}

func TestNilReporter(t *testing.T) {
	var r *Reporter
	r.Report("x", "y")
	r.Subscribe(func(Diagnostic) {})()
	assert.Equal(t, 0, r.Count())
}
