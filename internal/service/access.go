package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

// ensureCompany allows superadmins everywhere and other callers only inside their own company.
func ensureCompany(p model.Principal, companyID uuid.UUID) error {
	if p.IsSuperadmin {
		return nil
	}
	if !p.HasCompany() || p.CompanyID != companyID {
		return fmt.Errorf("%w: resource belongs to another company", ErrPermissionDenied)
	}
	return nil
}

// listScope returns the company a list must be narrowed to; uuid.Nil means unrestricted.
func listScope(p model.Principal) (uuid.UUID, error) {
	if p.IsSuperadmin {
		return uuid.Nil, nil
	}
	if !p.HasCompany() {
		return uuid.Nil, fmt.Errorf("%w: no company in token", ErrPermissionDenied)
	}
	return p.CompanyID, nil
}
