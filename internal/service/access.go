package service

import (
	"context"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type staffLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.StaffDetail, error)
}

// ensureSubjectAccess lets the HOD through and staff only for subjects they teach.
func ensureSubjectAccess(ctx context.Context, staff staffLookup, subject *models.SubjectDetail, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleHOD:
		return nil
	case models.RoleStaff:
		member, err := staff.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return notFoundOr(err, "staff profile not found", "failed to load staff")
		}
		if member.ID != subject.StaffID {
			return appErrors.Clone(appErrors.ErrForbidden, "subject is taught by another staff member")
		}
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient role")
	}
}
