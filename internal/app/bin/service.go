package bin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"digame/internal/app/docstore"
	"digame/internal/pkg/errs"
	"digame/internal/pkg/logx"
	"digame/internal/pkg/randx"
)

// Service implements bin creation, reads and overwrites on top of a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService returns a Service storing bins in repo.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		logger: logx.Logger().With().Str("component", "bin-service").Logger(),
	}
}

// Create stores a new bin holding the empty chat document and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	body, err := json.Marshal(docstore.EmptyDocument())
	if err != nil {
		return "", errs.NewError(errs.ErrUnknown, err)
	}

	id := randx.BinID()
	if err := s.repo.Save(ctx, id, body); err != nil {
		s.logger.Error().Err(err).Str("bin_id", id).Msg("Create: failed to save bin.")
		return "", errs.NewError(errs.ErrBinStorageFailed)
	}

	s.logger.Info().Str("bin_id", id).Msg("Bin created.")
	return id, nil
}

// Get returns the stored body of id.
func (s *Service) Get(ctx context.Context, id string) ([]byte, error) {
	if !randx.IsValidBinID(id) {
		return nil, errs.NewError(errs.ErrBinNotFound)
	}

	body, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errs.NewError(errs.ErrBinNotFound)
		}
		s.logger.Error().Err(err).Str("bin_id", id).Msg("Get: failed to load bin.")
		return nil, errs.NewError(errs.ErrBinStorageFailed)
	}

	return body, nil
}

// Put replaces the body of id, creating the bin when it does not exist. The body must be a
// single JSON value; it is stored compacted.
func (s *Service) Put(ctx context.Context, id string, body []byte) ([]byte, error) {
	if !randx.IsValidBinID(id) {
		return nil, errs.NewError(errs.ErrInvalidParams)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil || compact.Len() == 0 {
		return nil, errs.NewError(errs.ErrInvalidJSONFormat)
	}

	stored := compact.Bytes()
	if err := s.repo.Save(ctx, id, stored); err != nil {
		s.logger.Error().Err(err).Str("bin_id", id).Msg("Put: failed to save bin.")
		return nil, errs.NewError(errs.ErrBinStorageFailed)
	}

	s.logger.Debug().Str("bin_id", id).Int("bytes", len(stored)).Msg("Bin overwritten.")
	return stored, nil
}
