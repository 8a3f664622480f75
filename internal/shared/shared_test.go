package shared

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeText(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "basic normalization", in: "Imagine", want: "imagine"},
		{name: "surrounding whitespace", in: "  imagine ", want: "imagine"},
		{name: "inner whitespace", in: "Hey   Jude", want: "hey jude"},
		{name: "mixed case", in: "ThE LoNg WiNdInG rOaD", want: "the long winding road"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := Classify(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("wrapped domain errors", func(t *testing.T) {
		for _, target := range domainErrors {
			err := fmt.Errorf("fetch playlist: %w", target)
			if got := Classify(err); got != target {
				t.Errorf("Classify(%v) = %v, want %v", err, got, target)
			}
		}
	})

	t.Run("unknown error", func(t *testing.T) {
		if got := Classify(errors.New("boom")); got != nil {
			t.Errorf("expected nil for unknown error, got %v", got)
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("unexpected log output: %s", out)
		}
	})

	t.Run("file logger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "songle.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("console started")
	})

	t.Run("GenerateID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected a valid uuid, got %q: %v", id, err)
		}
	})
}
