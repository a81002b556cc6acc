package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFmtCommandRequiresPath(t *testing.T) {
	_, _, err := executeCLI(t, "fmt")
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSourceFile(t, t.TempDir(), "main.qrk", "number x = 1;  \nexit(x);\t \n")
	_, _, err := executeCLI(t, "fmt", "--check", path)
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSourceFile(t, t.TempDir(), "main.qrk", "number x = 1;  \r\nexit(x);\t \n\n\n")
	if _, _, err := executeCLI(t, "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	want := "number x = 1;\nexit(x);\n"
	if string(updated) != want {
		t.Fatalf("unexpected formatted output: %q", string(updated))
	}

	if _, _, err := executeCLI(t, "fmt", "--check", path); err != nil {
		t.Fatalf("formatted file should pass check: %v", err)
	}
}

func TestFmtCommandPrintsToStdout(t *testing.T) {
	path := writeSourceFile(t, t.TempDir(), "main.qrk", "exit(0);   ")
	stdout, _, err := executeCLI(t, "fmt", path)
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	if stdout != "exit(0);\n" {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
}

func TestCollectSourceFilesWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	a := writeSourceFile(t, dir, "a.qrk", "exit(0);\n")
	b := writeSourceFile(t, nested, "b.qrk", "exit(1);\n")
	writeSourceFile(t, dir, "notes.txt", "ignored\n")

	files, err := collectSourceFiles([]string{dir, a})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if files[0] != a || files[1] != b {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "\n"},
		{in: "exit(0);", want: "exit(0);\n"},
		{in: "a;\r\nb;\rc;", want: "a;\nb;\nc;\n"},
		{in: "if (true) {  \n\tx = 1;\t\n}\n\n", want: "if (true) {\n\tx = 1;\n}\n"},
		{in: "  exit(0);", want: "exit(0);\n"},
		{
			in:   "if (a) {\n    if (b) {\n  x = 1;\n        }\n} else {\ny = 2;\n   }",
			want: "if (a) {\n\tif (b) {\n\t\tx = 1;\n\t}\n} else {\n\ty = 2;\n}\n",
		},
		{
			in:   "if (a) {\n/* keep\n     this */\n  x = 1;\n}",
			want: "if (a) {\n/* keep\n     this */\n\tx = 1;\n}\n",
		},
		{in: "  text s = \"open;\n", want: "  text s = \"open;\n"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.in); got != tt.want {
			t.Fatalf("formatSource(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
