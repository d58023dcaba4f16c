package tokenizer

import (
	"os"
	"path/filepath"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountBytesText(t *testing.T) {
	result, countError := CountBytes(testCounter{}, []byte("hello"))
	if countError != nil {
		t.Fatalf("CountBytes error: %v", countError)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesEmpty(t *testing.T) {
	result, countError := CountBytes(testCounter{}, nil)
	if countError != nil {
		t.Fatalf("CountBytes error: %v", countError)
	}
	if !result.Counted || result.Tokens != 0 {
		t.Fatalf("expected counted empty result, got %+v", result)
	}
}

func TestCountBytesBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	result, countError := CountBytes(testCounter{}, data)
	if countError != nil {
		t.Fatalf("CountBytes error: %v", countError)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountBytesNilCounter(t *testing.T) {
	if _, countError := CountBytes(nil, []byte("hello")); countError == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestCountFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "sample.txt")
	if writeError := os.WriteFile(filePath, []byte("hello"), 0o644); writeError != nil {
		t.Fatalf("write sample: %v", writeError)
	}
	result, countError := CountFile(testCounter{}, filePath)
	if countError != nil {
		t.Fatalf("CountFile error: %v", countError)
	}
	if !result.Counted || result.Tokens != 5 {
		t.Fatalf("expected 5 counted tokens, got %+v", result)
	}
}

func TestCountFileMissing(t *testing.T) {
	if _, countError := CountFile(testCounter{}, filepath.Join(t.TempDir(), "absent.txt")); countError == nil {
		t.Fatalf("expected error for missing file")
	}
}
