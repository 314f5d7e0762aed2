package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	"github.com/dmitrijs2005/nutrigate/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// ProfileService reads and writes onboarding profiles. Callers may only
// touch their own profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *ProfileService) authorize(callerID, userID string) (string, error) {
	if userID == "" {
		return callerID, nil
	}
	if userID != callerID {
		return "", common.ErrorForbidden
	}
	return userID, nil
}

// Get returns common.ErrorNotFound when the user has no profile yet.
func (s *ProfileService) Get(ctx context.Context, callerID, userID string) (*models.Profile, error) {
	userID, err := s.authorize(callerID, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

// Upsert stores p for callerID. A profile marked complete must carry every
// health field, otherwise common.ErrIncompleteProfile is returned.
func (s *ProfileService) Upsert(ctx context.Context, callerID string, p *models.Profile) (*models.Profile, error) {
	userID, err := s.authorize(callerID, p.UserID)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	p.FullName = strings.TrimSpace(p.FullName)
	p.Allergies = strings.TrimSpace(p.Allergies)

	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s is out of range", common.ErrInvalidArgument, strings.ToLower(verrs[0].Field()))
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repomanager.Profiles(s.db).Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return saved, nil
}
