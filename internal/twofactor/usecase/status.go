package usecase

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

type StatusOutput struct {
	Status          entity.TwoFactorStatus
	RequiredFactors entity.RequiredFactors
	HasEmail        bool
	HasTOTPSecret   bool
}

// Status reports the admin's 2FA configuration and what a default
// verification would require.
func (s *Usecase) Status(ctx context.Context) (*StatusOutput, error) {
	ctx, span := s.startSpan(ctx, "Status")
	defer span.End()

	admin, err := s.resolveAdmin(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &StatusOutput{
		Status:          admin.Status,
		RequiredFactors: admin.RequiredFactors(true, true),
		HasEmail:        admin.HasEmail(),
		HasTOTPSecret:   admin.HasTOTPSecret(),
	}, nil
}
