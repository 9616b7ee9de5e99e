// Package service implements the game operations exposed to clients. It
// loads games from the repository, applies one mutation at a time per game,
// saves the result and notifies subscribers.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/errors"
	"github.com/hailam/chessd/internal/game"
)

// Repository stores game records.
type Repository interface {
	NextID() (string, error)
	Save(rec game.Record) error
	Load(id string) (game.Record, error)
	Exists(id string) (bool, error)
	List() ([]game.Record, error)
}

// Notifier receives game events after they are committed.
type Notifier interface {
	PublishMove(gameID, move string)
	PublishJoin(gameID, player string)
}

// Service coordinates games, storage and notifications.
type Service struct {
	repo   Repository
	notify Notifier
	locks  *keyedMutex
	log    zerolog.Logger
}

// New creates a service. notify may be nil.
func New(repo Repository, notify Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		notify: notify,
		locks:  newKeyedMutex(),
		log:    log.With().Str("component", "service").Logger(),
	}
}

// parseSeat maps a requested color to a seat. An empty color means White.
func parseSeat(color string) (board.Color, error) {
	if strings.TrimSpace(color) == "" {
		return board.White, nil
	}
	c := board.ParseColor(color)
	if c == board.NoColor {
		return board.NoColor, fmt.Errorf("%q: %w", color, errors.ErrInvalidColor)
	}
	return c, nil
}

// CreateGame creates a game with player seated as color and stores it.
func (s *Service) CreateGame(ctx context.Context, color, player string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seat, err := parseSeat(color)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	g, err := game.New(id, seat, player)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(g.Record()); err != nil {
		return nil, errors.Wrapf(err, "save game %s", id)
	}

	s.log.Info().Str("game", id).Str("color", seat.String()).Str("player", g.WaitingPlayer()).Msg("game created")
	return g, nil
}

// JoinGame seats player in the empty seat of a waiting game.
func (s *Service) JoinGame(ctx context.Context, id, player string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if err := g.Join(player); err != nil {
		return nil, err
	}

	if err := s.repo.Save(g.Record()); err != nil {
		return nil, errors.Wrapf(err, "save game %s", id)
	}

	s.log.Info().Str("game", id).Str("white", g.White).Str("black", g.Black).Msg("player joined")
	if s.notify != nil {
		s.notify.PublishJoin(id, strings.TrimSpace(player))
	}
	return g, nil
}

// PlayMove plays a coordinate-notation move and returns the updated game and
// the accepted move text.
func (s *Service) PlayMove(ctx context.Context, id, move string) (*game.Game, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.load(id)
	if err != nil {
		return nil, "", err
	}

	accepted, err := g.PlayMove(move)
	if err != nil {
		s.log.Debug().Err(err).Str("game", id).Str("move", move).Msg("move rejected")
		return nil, "", err
	}

	if err := s.repo.Save(g.Record()); err != nil {
		return nil, "", errors.Wrapf(err, "save game %s", id)
	}

	ev := s.log.Info().Str("game", id).Str("move", accepted).Str("state", g.State.String())
	if g.State.IsTerminal() {
		ev.Str("result", g.State.Result())
	}
	ev.Msg("move played")

	if s.notify != nil {
		s.notify.PublishMove(id, accepted)
	}
	return g, accepted, nil
}

// LegalMoves returns the legal moves of a game in coordinate notation.
func (s *Service) LegalMoves(ctx context.Context, id string) ([]string, error) {
	g, err := s.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.LegalMoves(), nil
}

// MoveHistory returns the moves played in a game.
func (s *Service) MoveHistory(ctx context.Context, id string) ([]string, error) {
	g, err := s.Game(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Moves(), nil
}

// Game loads a game.
func (s *Service) Game(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load(id)
}

// Exists reports whether a game is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.repo.Exists(id)
}

// Games returns the records of all stored games.
func (s *Service) Games(ctx context.Context) ([]game.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.List()
}

// VerifyAll replays every stored game and reports each one that fails the
// integrity check. It stops early if ctx is cancelled.
func (s *Service) VerifyAll(ctx context.Context) error {
	records, err := s.repo.List()
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}
		if _, err := game.Restore(rec); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if result != nil {
		s.log.Error().Int("failed", len(result.Errors)).Int("games", len(records)).Msg("stored games failed verification")
	} else {
		s.log.Info().Int("games", len(records)).Msg("stored games verified")
	}
	return result.ErrorOrNil()
}

// load reads and replays a game.
func (s *Service) load(id string) (*game.Game, error) {
	rec, err := s.repo.Load(id)
	if err != nil {
		return nil, err
	}

	g, err := game.Restore(rec)
	if err != nil {
		s.log.Error().Err(err).Str("game", id).Msg("stored game failed replay")
		return nil, err
	}
	return g, nil
}
