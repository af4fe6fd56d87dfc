package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

// scriptedAnswerer returns a canned reply for every question
type scriptedAnswerer struct {
	reply string
	calls int
}

func (s *scriptedAnswerer) Answer(_ context.Context, _ string) string {
	s.calls++
	return s.reply
}

func TestRunAskInteractive(t *testing.T) {
	answerer := &scriptedAnswerer{
		reply: "Dr. Alicia Mendez holds the largest stake at 35%.",
	}

	input := strings.NewReader("Who owns the most equity?\n\nexit\n")

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runAskInteractive(context.Background(), input, answerer)

	// Restore stdout and get output
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runAskInteractive() error = %v", err)
	}

	// The blank line is skipped and "exit" ends the session unanswered
	if answerer.calls != 1 {
		t.Errorf("expected 1 answered question, got %d", answerer.calls)
	}

	contains := []string{
		`Type "exit" to quit.`,
		"askdb> ",
		"Dr. Alicia Mendez holds the largest stake at 35%.",
	}
	for _, expected := range contains {
		if !strings.Contains(output, expected) {
			t.Errorf("runAskInteractive() output does not contain %q\nOutput: %s", expected, output)
		}
	}
}

func TestRunAskInteractiveStopsAtEOF(t *testing.T) {
	answerer := &scriptedAnswerer{reply: "done"}

	// No exit word; the reader just runs dry
	input := strings.NewReader("What was our profit in Q4 2024?\n")

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runAskInteractive(context.Background(), input, answerer)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if err != nil {
		t.Fatalf("runAskInteractive() error = %v", err)
	}

	if answerer.calls != 1 {
		t.Errorf("expected 1 answered question, got %d", answerer.calls)
	}
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  bool
	}{
		{"valid question", "Who owns the most equity?", false},
		{"minimum length", "Q4?", false},
		{"too short", "hi", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestion(tt.question)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQuestion(%q) error = %v, wantErr %v",
					tt.question, err, tt.wantErr)
			}
		})
	}
}
