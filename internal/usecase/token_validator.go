package usecase

import (
	"tablebook/internal/domain/user"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into a Principal. The auth middleware
// depends on this rather than on the jwt package directly.
type TokenValidator interface {
	Validate(token string) (Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) Validate(token string) (Principal, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return Principal{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return Principal{}, errs.Mark(err, jwt.ErrInvalidToken)
	}

	return Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
