package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origRP, origIT := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return pw, err }
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() {
		readPassword = origRP
		isTerminal = origIT
	})
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name?\n> " {
		t.Fatalf("prompt = %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("s3cret"), nil)

	var out bytes.Buffer
	got, err := GetPassword(rdr(""), "Password", &out)
	if err != nil || got != "s3cret" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	if _, err := GetPassword(rdr(""), "Password", &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPassword_PipedKeepsSpaces(t *testing.T) {
	stubTerminal(t, false, nil, nil)

	var out bytes.Buffer
	got, err := GetPassword(rdr("  spaced  \r\nnext\n"), "Password", &out)
	if err != nil || got != "  spaced  " {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := GetConfirmation(rdr(tt.input), "Delete?", &out); got != tt.want {
			t.Errorf("GetConfirmation(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
