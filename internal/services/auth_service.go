package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/noxus/leadops/internal/accounts"
	"github.com/noxus/leadops/internal/auth"
	"github.com/noxus/leadops/internal/models"
	"github.com/noxus/leadops/internal/upstream"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password are required")
)

type AuthService struct {
	api       *upstream.Client
	directory *accounts.Directory
	codec     *auth.SessionCodec
}

// NewAuthService signs users in against directory first and the upstream
// otherwise. directory may be nil.
func NewAuthService(api *upstream.Client, directory *accounts.Directory, codec *auth.SessionCodec) *AuthService {
	return &AuthService{api: api, directory: directory, codec: codec}
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Signed  string
	Session models.Session
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var (
		user  models.User
		token string
	)
	if s.directory.Has(email) {
		acc, err := s.directory.Authenticate(email, password)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
		user, token = acc.User(), acc.APIToken
	} else {
		var err error
		token, err = s.api.Authenticate(ctx, email, password)
		if err != nil {
			if errors.Is(err, upstream.ErrInvalidCredentials) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("upstream login: %w", err)
		}
		user, err = s.api.CurrentUser(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
	}

	if user.Role != models.RoleAdministrator && user.LojaID == nil {
		slog.Warn("store user without store", "user_id", fmt.Sprint(user.ID))
	}

	signed, sess, err := s.codec.Issue(user, token)
	if err != nil {
		return nil, err
	}
	slog.Info("user logged in", "user_id", fmt.Sprint(user.ID), "role", string(user.Role))
	return &LoginResult{Signed: signed, Session: sess}, nil
}
