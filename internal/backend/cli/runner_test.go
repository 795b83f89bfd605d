package cli

import (
	"context"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunSpawnFailure(t *testing.T) {
	r := NewRunner("/nonexistent/delegation-backend")
	code, lines := r.Run(context.Background(), NewBuilder("").Build("AV", []string{"*", "DISPLAY"}, nil))

	if code != SpawnFailureCode {
		t.Errorf("exit code = %d, want %d", code, SpawnFailureCode)
	}
	if len(lines) != 1 || lines[0] == "" {
		t.Errorf("output = %v, want a single cause line", lines)
	}
}

func TestRunCapturesStdoutThenStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses /bin/sh")
	}

	r := NewRunner("/bin/sh")
	cmd := &Command{tokens: []string{"-c", "echo out1; echo out2; echo err1 >&2"}}
	code, lines := r.Run(context.Background(), cmd)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	want := []string{"out1", "out2", "err1"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReturnsProcessExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses /bin/sh")
	}

	r := NewRunner("/bin/sh")
	cmd := &Command{tokens: []string{"-c", "echo failing; exit 3"}}
	code, lines := r.Run(context.Background(), cmd)

	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if len(lines) != 1 || lines[0] != "failing" {
		t.Errorf("lines = %v, want [failing]", lines)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single line with terminator", "hello\n", []string{"hello"}},
		{"single line without terminator", "hello", []string{"hello"}},
		{"crlf terminators", "a\r\nb\r\n", []string{"a", "b"}},
		{"only one trailing terminator stripped", "a\n\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, splitLines(tt.input)); diff != "" {
				t.Errorf("splitLines(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
