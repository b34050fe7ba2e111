package auth

import (
	"context"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/fitvs/coaching-service/internal/config"
	"github.com/fitvs/coaching-service/internal/models"
	"github.com/fitvs/coaching-service/internal/repositories"
)

// casdoorTokenParser is the part of the Casdoor client used here
type casdoorTokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// CasdoorAuthenticator verifies Casdoor-issued tokens and maps the account
// to a local user by email. Roles come from the local record.
type CasdoorAuthenticator struct {
	client casdoorTokenParser
	users  repositories.UserRepository
}

func NewCasdoorAuthenticator(cfg config.CasdoorConfig, users repositories.UserRepository) *CasdoorAuthenticator {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &CasdoorAuthenticator{
		client: client,
		users:  users,
	}
}

func (a *CasdoorAuthenticator) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	email := claims.User.Email
	if email == "" {
		return models.Identity{}, fmt.Errorf("%w: token has no email", ErrInvalidCredential)
	}

	user, err := a.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.Identity{}, fmt.Errorf("%w: no local account", ErrInvalidCredential)
		}
		return models.Identity{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	if !user.Active {
		return models.Identity{}, fmt.Errorf("%w: account disabled", ErrInvalidCredential)
	}

	return models.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}
