package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output. Not safe for parallel use.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r) //nolint:errcheck
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

func TestFormatJSON(t *testing.T) {
	type sample struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	v := sample{ID: 42, Name: "research"}

	got := captureStdout(t, func() { formatJSON(v) })

	var out sample
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out.ID != 42 || out.Name != "research" {
		t.Errorf("got %+v", out)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "NAME"}
	rows := [][]string{
		{"1", "research"},
		{"23", "ml"},
	}

	got := captureStdout(t, func() { formatTable(headers, rows) })
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header, separator, 2 rows)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "NAME") {
		t.Errorf("header: %q", lines[0])
	}
	// The NAME column must start at the same offset in every line.
	offset := strings.Index(lines[0], "NAME")
	for _, line := range lines[2:] {
		if len(line) < offset {
			t.Errorf("row too short: %q", line)
		}
	}
}

func TestBoolFlagTriState(t *testing.T) {
	var f boolFlag
	if f.value != nil {
		t.Fatal("unset flag must stay nil")
	}
	if err := f.Set("true"); err != nil {
		t.Fatal(err)
	}
	if f.value == nil || !*f.value {
		t.Errorf("got %v", f.value)
	}
	if err := f.Set("nope"); err == nil {
		t.Error("invalid bool must error")
	}
}
