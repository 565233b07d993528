package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	pkgio "github.com/matzehuels/bicolour/pkg/io"
)

func TestStatusCensus(t *testing.T) {
	tests := []struct {
		cached bool
		want   []string
	}{
		{false, []string{"4 vertices", "3 edges", "1", "3"}},
		{true, []string{"4 vertices", "3 edges", "cached"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		status{w: &buf}.census(star(t), tt.cached)
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("census(cached=%v) = %q, lacks %q", tt.cached, buf.String(), want)
			}
		}
		if !tt.cached && strings.Contains(buf.String(), "cached") {
			t.Errorf("census(cached=false) = %q", buf.String())
		}
	}
}

func TestRunValidateStdinStatus(t *testing.T) {
	doc, err := pkgio.Encode(star(t), nil, pkgio.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	c, out := stdioCLI(doc)

	if err := c.runValidate(context.Background(), stdio); err != nil {
		t.Fatalf("runValidate() error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"stdin is valid", "Vertices", "Stable"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q lacks %q", got, want)
		}
	}
	if strings.Contains(got, "render") {
		t.Errorf("status %q suggests rendering a file that does not exist", got)
	}
}

func TestRunValidateStdinFailure(t *testing.T) {
	c, out := stdioCLI([]byte(`{"vertices": [`))
	if err := c.runValidate(context.Background(), stdio); err == nil {
		t.Fatal("runValidate() accepted a truncated document")
	}
	if !strings.Contains(out.String(), "stdin is not a valid document") {
		t.Errorf("status = %q", out.String())
	}
}
