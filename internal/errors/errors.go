// Package errors provides sentinel errors and error types for the game server.
// It defines the failure kinds of move handling and persistence as sentinels,
// plus a structured error that carries game context while still allowing
// inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrMalformedMove indicates a coordinate move string of the wrong length
	// or naming a square outside the board.
	ErrMalformedMove = errors.New("malformed move")

	// ErrIllegalMove indicates a well-formed move absent from the legal move set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidGameState indicates an operation not allowed in the game's current state.
	ErrInvalidGameState = errors.New("invalid game state")

	// ErrIntegrityFault indicates persisted state that cannot be reproduced by
	// replaying its move history.
	ErrIntegrityFault = errors.New("integrity fault")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidColor indicates a color name other than white or black.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidPlayer indicates an empty or otherwise unusable player label.
	ErrInvalidPlayer = errors.New("invalid player")

	// ErrGameNotFound indicates an unknown game id.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// GameError wraps errors with game context: the game id, the ply at which the
// error occurred and the move text involved. It supports unwrapping via
// errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	GameID   string // Game identifier (if known)
	Ply      int    // 1-based ply the error refers to (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.GameID != "" {
		parts = append(parts, fmt.Sprintf("game %s", e.GameID))
	}
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")
	switch {
	case e.Err == nil:
		return context
	case context == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// Integrity builds an integrity fault for a game. The result carries a stack
// trace since it signals corrupted state or an engine bug rather than bad input.
func Integrity(gameID, format string, args ...interface{}) error {
	return pkgerrors.WithStack(&GameError{
		Err:    fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrIntegrityFault),
		GameID: gameID,
	})
}

// IsUserError reports whether err was caused by client input and should be
// reported back rather than treated as an internal failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMalformedMove) ||
		errors.Is(err, ErrIllegalMove) ||
		errors.Is(err, ErrInvalidGameState) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrInvalidPlayer) ||
		errors.Is(err, ErrInvalidFEN)
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
