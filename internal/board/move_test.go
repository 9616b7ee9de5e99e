package board

import (
	stderrors "errors"
	"testing"

	"github.com/hailam/chessd/internal/errors"
)

func TestParseMoveTypes(t *testing.T) {
	tests := []struct {
		fen   string
		move  string
		want  Move
		mtype MoveType
	}{
		{StartFEN, "e2e4", NewMove(E2, E4), Normal},
		{StartFEN, "g1f3", NewMove(G1, F3), Normal},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", NewCastling(E1, G1), Castling},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", NewCastling(E8, C8), Castling},
		{"7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8q", NewPromotion(A7, A8, Queen), Promotion},
		{"7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8n", NewPromotion(A7, A8, Knight), Promotion},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", NewEnPassant(E5, F6), EnPassant},
		// An empty origin square still parses; legality is checked later.
		{StartFEN, "e4e5", NewMove(E4, E5), Normal},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			got, err := ParseMove(tc.move, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.move, err)
			}
			if got != tc.want {
				t.Errorf("ParseMove(%q) = %v, want %v", tc.move, got, tc.want)
			}
			if got.Type() != tc.mtype {
				t.Errorf("type = %s, want %s", got.Type(), tc.mtype)
			}
			if got.String() != tc.move {
				t.Errorf("String() = %q, want %q", got.String(), tc.move)
			}
		})
	}
}

func TestParseMoveMalformed(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"", "e2", "e2e", "e2e4qq", "i2e4", "e2e9", "e7e8k", "e7e8Q", "e7e8x"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseMove(s, pos)
			if !stderrors.Is(err, errors.ErrMalformedMove) {
				t.Errorf("ParseMove(%q) error = %v, want ErrMalformedMove", s, err)
			}
		})
	}
}

func TestMoveEquality(t *testing.T) {
	if NewMove(E2, E4) == NewPromotion(E2, E4, Knight) {
		t.Error("normal move equals promotion with same squares")
	}
	if NewPromotion(A7, A8, Queen) == NewPromotion(A7, A8, Rook) {
		t.Error("promotions to different pieces compare equal")
	}
	if NewMove(E1, G1) == NewCastling(E1, G1) {
		t.Error("castling equals normal king move")
	}
	if NewMove(E2, E4).Promotion() != NoPieceType {
		t.Error("normal move reports a promotion piece")
	}
}

func TestMoveList(t *testing.T) {
	ml := NewMoveList()
	ml.Add(NewMove(E2, E4))
	ml.Add(NewMove(D2, D4))

	if ml.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ml.Len())
	}
	if !ml.Contains(NewMove(D2, D4)) || ml.Contains(NewMove(C2, C4)) {
		t.Error("Contains gave wrong answer")
	}
	if got := ml.Slice(); len(got) != 2 || got[0] != NewMove(E2, E4) {
		t.Errorf("Slice() = %v, want [e2e4 d2d4]", got)
	}
}
