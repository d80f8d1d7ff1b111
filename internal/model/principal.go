package model

import "github.com/google/uuid"

// Principal is the caller resolved from the bearer token.
type Principal struct {
	UserID       uuid.UUID
	CompanyID    uuid.UUID
	IsSuperadmin bool
	Permissions  []string
	Token        string
}

func (p Principal) HasCompany() bool {
	return p.CompanyID != uuid.Nil
}

func (p Principal) Can(permission string) bool {
	if p.IsSuperadmin {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}
