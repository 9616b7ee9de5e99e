package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

// TestSentinelErrors_Wrapping verifies wrapped sentinel errors can still be detected
func TestSentinelErrors_Wrapping(t *testing.T) {
	sentinels := []error{
		ErrMalformedMove,
		ErrIllegalMove,
		ErrInvalidGameState,
		ErrIntegrityFault,
		ErrInvalidFEN,
		ErrInvalidColor,
		ErrInvalidPlayer,
		ErrGameNotFound,
		ErrInvalidConfig,
	}

	for _, sentinel := range sentinels {
		t.Run(sentinel.Error(), func(t *testing.T) {
			wrapped := Wrapf(sentinel, "game %d", 3)
			if !Is(wrapped, sentinel) {
				t.Errorf("Is(%v, %v) = false, want true", wrapped, sentinel)
			}
		})
	}
}

// TestGameError_Error verifies the error message format
func TestGameError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GameError
		want string
	}{
		{
			name: "full context",
			err:  &GameError{Err: ErrIllegalMove, GameID: "7", Ply: 12, MoveText: "e2e5"},
			want: `game 7, ply 12, move "e2e5": illegal move`,
		},
		{
			name: "no context",
			err:  &GameError{Err: ErrMalformedMove},
			want: "malformed move",
		},
		{
			name: "no error",
			err:  &GameError{GameID: "7"},
			want: "game 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestGameError_Unwrap verifies errors.Is and errors.As see through GameError
func TestGameError_Unwrap(t *testing.T) {
	err := fmt.Errorf("play: %w", &GameError{Err: ErrIllegalMove, GameID: "1", Ply: 1})

	if !errors.Is(err, ErrIllegalMove) {
		t.Error("errors.Is(err, ErrIllegalMove) = false")
	}

	var ge *GameError
	if !As(err, &ge) {
		t.Fatal("As(err, *GameError) = false")
	}
	if ge.GameID != "1" || ge.Ply != 1 {
		t.Errorf("unwrapped GameError = %+v", ge)
	}
}

func TestIntegrity(t *testing.T) {
	err := Integrity("9", "replay of %d moves", 4)

	if !errors.Is(err, ErrIntegrityFault) {
		t.Fatalf("Integrity() = %v, want ErrIntegrityFault", err)
	}
	if IsUserError(err) {
		t.Error("integrity fault reported as user error")
	}
	if !strings.Contains(err.Error(), "game 9") || !strings.Contains(err.Error(), "replay of 4 moves") {
		t.Errorf("Integrity() message = %q", err.Error())
	}

	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	var st stackTracer
	if !errors.As(err, &st) || len(st.StackTrace()) == 0 {
		t.Error("integrity fault carries no stack trace")
	}
}

func TestIsUserError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrMalformedMove, true},
		{ErrIllegalMove, true},
		{ErrInvalidGameState, true},
		{ErrInvalidColor, true},
		{ErrInvalidPlayer, true},
		{ErrInvalidFEN, true},
		{&GameError{Err: ErrIllegalMove}, true},
		{ErrGameNotFound, false},
		{ErrIntegrityFault, false},
		{ErrInvalidConfig, false},
		{errors.New("disk full"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsUserError(tt.err); got != tt.want {
			t.Errorf("IsUserError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) != nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) != nil")
	}
}
