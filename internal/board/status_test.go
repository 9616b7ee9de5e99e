package board

import "testing"

func TestIsCheckmate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true},
		{"king takes rook", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false},
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true},
		{"start", StartFEN, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			if got := pos.IsCheckmate(); got != tc.want {
				t.Errorf("IsCheckmate() = %v, want %v", got, tc.want)
			}
			if pos.IsStalemate() {
				t.Error("IsStalemate() = true")
			}
		})
	}
}

func TestIsStalemate(t *testing.T) {
	pos := MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !pos.IsStalemate() {
		t.Error("IsStalemate() = false, want true")
	}
	if pos.IsCheckmate() {
		t.Error("IsCheckmate() = true, want false")
	}
	if pos.HasLegalMoves() {
		t.Error("HasLegalMoves() = true")
	}
}

func TestIsInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"king and knight", "8/8/8/4k3/8/8/8/4KN2 w - - 0 1", true},
		{"king and bishop", "8/8/8/4k3/8/8/8/4KB2 w - - 0 1", true},
		{"bishop pair", "8/8/8/4k3/8/8/8/2B1KB2 w - - 0 1", false},
		{"bishops on light squares", "8/8/8/4kb2/8/8/8/4KB2 w - - 0 1", true},
		{"bishops on both colors", "8/8/8/2b1k3/8/8/8/4KB2 w - - 0 1", false},
		{"two knights", "8/8/8/4k3/8/8/8/3NKN2 w - - 0 1", false},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"rook", "8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MustParseFEN(tc.fen).IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial() = %v, want %v", got, tc.want)
			}
		})
	}
}
