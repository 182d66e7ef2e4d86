package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Over", "Balls", "Runs"}
	rows := [][]string{
		{"01", "4 1 W", "5"},
		{"12", "WB 6", "7"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Over Balls Runs" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "01   4 1 W    5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "12   WB 6     7" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"Team", "Note"}, [][]string{{"Lions", ""}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "Lions" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
