package stackctl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBootstrapEnvFile(t *testing.T) {
	d := t.TempDir()
	template := filepath.Join(d, ".env.example")
	target := filepath.Join(d, ".env")
	if err := os.WriteFile(template, []byte("LLAMA_MODEL=llama3.2:1b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := bootstrapEnvFile(target, template); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "LLAMA_MODEL=llama3.2:1b\n" {
		t.Fatalf("unexpected seeded contents: %q", b)
	}

	// user edits survive re-runs byte for byte
	if err := os.WriteFile(target, []byte("LLAMA_MODEL=mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := bootstrapEnvFile(target, template); err != nil {
		t.Fatalf("re-bootstrap: %v", err)
	}
	b, _ = os.ReadFile(target)
	if string(b) != "LLAMA_MODEL=mine\n" {
		t.Fatalf("existing env file was overwritten: %q", b)
	}
}

func TestBootstrapEnvFile_MissingTemplate(t *testing.T) {
	d := t.TempDir()
	if err := bootstrapEnvFile(filepath.Join(d, ".env"), filepath.Join(d, "nope")); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestLookupEnvKey(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, ".env")

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"simple", "LLAMA_MODEL=custom:tag\n", "custom:tag"},
		{"first match wins", "LLAMA_MODEL=first\nLLAMA_MODEL=second\n", "first"},
		{"comments and blanks", "# model\n\nLLAMA_MODEL=picked\n", "picked"},
		{"export prefix", "export LLAMA_MODEL=exported\n", "exported"},
		{"quoted value", `LLAMA_MODEL="quoted:v1"` + "\n", "quoted:v1"},
		{"empty value falls back", "LLAMA_MODEL=\nLLAMA_MODEL=later\n", "llama3.2:1b"},
		{"key absent", "OTHER=1\n", "llama3.2:1b"},
		{"prefix key does not match", "LLAMA_MODEL_ALT=x\n", "llama3.2:1b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := os.WriteFile(p, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got := lookupEnvKey(p, "LLAMA_MODEL", "llama3.2:1b")
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestLookupEnvKey_MissingFile(t *testing.T) {
	got := lookupEnvKey(filepath.Join(t.TempDir(), "nope"), "LLAMA_MODEL", "fallback")
	if got != "fallback" {
		t.Fatalf("got %q want fallback", got)
	}
}
