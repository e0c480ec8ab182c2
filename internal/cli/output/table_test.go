package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_Render(t *testing.T) {
	table := NewTable("MAC", "DEVICE", "HEARTBEATS")
	table.AddRow("aa:bb:cc:dd:ee:ff", "sensor-1", 42)
	table.AddRow("de:ad:be:ef:00:01", "camera", 7)

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "MAC") {
		t.Errorf("first line should be the header, got %q", lines[0])
	}
	if !strings.Contains(out, "42") {
		t.Errorf("output missing stringified int cell:\n%s", out)
	}
}

func TestTableFormatter_FallbackJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(&buf, map[string]int{"total": 3}); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"total\": 3") {
		t.Errorf("fallback output = %q, want indented JSON", buf.String())
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("FormatJSON should yield a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("FormatTable should yield a TableFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TableFormatter); !ok {
		t.Error("unknown format should fall back to TableFormatter")
	}
}
