package report

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestNewReportServiceWarnsOnMissingFonts(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	svc := NewReportService(map[string]interface{}{"font_dir": t.TempDir()}, nil)
	if svc == nil {
		t.Fatal("service not constructed")
	}
	// A fresh checkout ships no TTF files; the gap must surface in the boot
	// log, not at the first export request.
	if !strings.Contains(buf.String(), "exports unavailable") {
		t.Errorf("log = %q, want a missing-font warning at construction", buf.String())
	}
}
