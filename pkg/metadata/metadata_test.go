package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSignAndParse(t *testing.T) {
	data := []byte(`[{"objectID":"cpu-amd-ryzen-7-9700x"}]`)

	meta := Sign(data, "run-1", 1)

	parsed, err := Parse(meta.String())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Version != Version || parsed.RunID != "run-1" || parsed.Records != 1 {
		t.Errorf("unexpected metadata %+v", parsed)
	}

	if parsed.Hash != CalculateHash(data) {
		t.Errorf("hash = %s", parsed.Hash)
	}

	if parsed.LastModify.IsZero() {
		t.Error("LAST_MODIFY should be set")
	}
}

func TestParse_NoHash(t *testing.T) {
	if _, err := Parse("VERSION: 1\nRUN_ID: x\n"); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("expected ErrNoHashFound, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	data := []byte("[]")
	meta := Sign(data, "run-2", 0)

	if err := Verify(data, meta); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	if err := Verify([]byte("[{}]"), meta); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("expected ErrHashMismatch, got %v", err)
	}
}

func TestWriteSidecarAndVerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu_processed.json")
	data := []byte(`[{"objectID":"cpu-a"},{"objectID":"cpu-b"}]`)

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, err := WriteSidecar(path, data, "run-3", 2); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}

	sidecar, err := os.ReadFile(path + ".meta")
	if err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}

	if !strings.Contains(string(sidecar), "RECORDS: 2") {
		t.Errorf("sidecar = %s", sidecar)
	}

	got, meta, err := VerifyFile(path)
	if err != nil {
		t.Fatalf("VerifyFile failed: %v", err)
	}

	if string(got) != string(data) || meta.RunID != "run-3" {
		t.Errorf("VerifyFile returned (%s, %+v)", got, meta)
	}

	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("rewrite snapshot: %v", err)
	}

	if _, _, err := VerifyFile(path); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("expected ErrHashMismatch after tampering, got %v", err)
	}
}
