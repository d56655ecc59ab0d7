package shared

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected unique ids")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected uuid format, got %s", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"title": "Test Channel"}

	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(payload, false)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if strings.Contains(string(data), "\n") {
			t.Error("compact output should not contain newlines")
		}

		var decoded map[string]string
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output should be valid JSON: %v", err)
		}
		if decoded["title"] != "Test Channel" {
			t.Errorf("expected title Test Channel, got %s", decoded["title"])
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(payload, true)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if !strings.Contains(string(data), "\n") {
			t.Error("pretty output should contain newlines")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	if logger == nil {
		t.Fatal("expected logger")
	}

	logger.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output to contain message, got %q", buf.String())
	}
}
