package services

import (
	"context"
	"errors"
	"strings"

	"github.com/terraincognita07/habitdiary/internal/models"
	"github.com/terraincognita07/habitdiary/internal/security"
	"gorm.io/gorm"
)

type TokenVerifier interface {
	Verify(rawToken string) (string, error)
}

type IdentityUserRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (models.User, bool, error)
	Create(ctx context.Context, user *models.User) error
}

// IdentityService turns a bearer credential into a local user. It is the
// only place credentials are inspected.
type IdentityService struct {
	tokens TokenVerifier
	users  IdentityUserRepository
}

func NewIdentityService(tokens TokenVerifier, users IdentityUserRepository) *IdentityService {
	return &IdentityService{tokens: tokens, users: users}
}

func (service *IdentityService) Verify(ctx context.Context, credential string) (models.User, error) {
	subject, err := service.subject(credential)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByExternalID(ctx, subject)
	if err != nil {
		return models.User{}, storeFailure("load user", err)
	}
	if !found {
		return models.User{}, &AuthFailure{Reason: AuthReasonUnknownUser}
	}
	return user, nil
}

// Register creates the local user for a verified subject. Registering an
// existing subject returns the stored user.
func (service *IdentityService) Register(ctx context.Context, credential string) (models.User, bool, error) {
	subject, err := service.subject(credential)
	if err != nil {
		return models.User{}, false, err
	}

	user, found, err := service.users.FindByExternalID(ctx, subject)
	if err != nil {
		return models.User{}, false, storeFailure("load user", err)
	}
	if found {
		return user, false, nil
	}

	user = models.User{ExternalID: subject}
	if err := service.users.Create(ctx, &user); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, false, storeFailure("create user", err)
		}
		user, found, err = service.users.FindByExternalID(ctx, subject)
		if err != nil {
			return models.User{}, false, storeFailure("load user", err)
		}
		if !found {
			return models.User{}, false, storeFailure("load user", errors.New("user missing after duplicate insert"))
		}
		return user, false, nil
	}
	return user, true, nil
}

func (service *IdentityService) subject(credential string) (string, error) {
	token := StripBearer(credential)
	if token == "" {
		return "", &AuthFailure{Reason: AuthReasonMissingCredential}
	}

	subject, err := service.tokens.Verify(token)
	switch {
	case err == nil:
		return subject, nil
	case errors.Is(err, security.ErrTokenExpired):
		return "", &AuthFailure{Reason: AuthReasonExpiredCredential}
	case errors.Is(err, security.ErrTokenMissing):
		return "", &AuthFailure{Reason: AuthReasonMissingCredential}
	default:
		return "", &AuthFailure{Reason: AuthReasonInvalidCredential}
	}
}

// StripBearer accepts both "Bearer <token>" and a bare token.
func StripBearer(credential string) string {
	value := strings.TrimSpace(credential)
	if strings.EqualFold(value, "bearer") {
		return ""
	}
	if scheme, token, found := strings.Cut(value, " "); found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	return value
}
