package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the access token payload issued by the identity service.
type Claims struct {
	UserID       string   `json:"user_id,omitempty"`
	CompanyID    string   `json:"company_id,omitempty"`
	IsSuperadmin bool     `json:"is_superadmin"`
	Permissions  []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Principal converts claims into the request principal. user_id wins over sub.
func (c *Claims) Principal(token string) (model.Principal, error) {
	rawUser := c.UserID
	if rawUser == "" {
		rawUser = c.Subject
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: user id", ErrInvalidToken)
	}

	var companyID uuid.UUID
	if c.CompanyID != "" {
		companyID, err = uuid.Parse(c.CompanyID)
		if err != nil {
			return model.Principal{}, fmt.Errorf("%w: company id", ErrInvalidToken)
		}
	}

	return model.Principal{
		UserID:       userID,
		CompanyID:    companyID,
		IsSuperadmin: c.IsSuperadmin,
		Permissions:  c.Permissions,
		Token:        token,
	}, nil
}
