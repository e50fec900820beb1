package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

func TestParseMove(t *testing.T) {
	cases := []struct {
		in      string
		x, y, z int
		ok      bool
	}{
		{"1 2 3", 1, 2, 3, true},
		{"0,0,3", 0, 0, 3, true},
		{"  3 3   3 ", 3, 3, 3, true},
		{"1 2", 0, 0, 0, false},
		{"a b c", 0, 0, 0, false},
	}
	for _, tc := range cases {
		x, y, z, err := parseMove(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("parseMove(%q) error = %v", tc.in, err)
		}
		if tc.ok && (x != tc.x || y != tc.y || z != tc.z) {
			t.Fatalf("parseMove(%q) = %d %d %d", tc.in, x, y, z)
		}
	}
}

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	opts := options{Side: domain.X, Difficulty: domain.DifficultyMedium, Depth: 1}
	if err := run(strings.NewReader("9 9 9\nq\n"), &out, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), domain.ErrOutOfBounds.Error()) || !strings.HasSuffix(out.String(), "bye\n") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunAlternatesWithEngine(t *testing.T) {
	var out bytes.Buffer
	opts := options{Side: domain.X, Difficulty: domain.DifficultyMedium, Depth: 2}
	if err := run(strings.NewReader("1 1 0\n1 1 0\n2 1 0\n"), &out, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"O plays 0 0 0", domain.ErrCellOccupied.Error(), "O plays 0 1 0"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestEngineMoveBlocksThreat(t *testing.T) {
	board := domain.Board{
		XMask: domain.BitAt(0, 0, 0) | domain.BitAt(1, 0, 0) | domain.BitAt(2, 0, 0),
		OMask: domain.BitAt(0, 0, 1) | domain.BitAt(1, 0, 1),
	}
	opts := options{Side: domain.X, Difficulty: domain.DifficultyMedium, Depth: 2}
	if move := engineMove(board, domain.O, opts); move != domain.BitIndex(3, 0, 0) {
		t.Fatalf("engine should block at 3 0 0, got %d", move)
	}
}
