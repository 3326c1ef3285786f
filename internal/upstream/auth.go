package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/noxus/leadops/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate exchanges a username and password for an upstream JWT.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, http.MethodPost, "jwt-auth/v1/token", c.rawURL("jwt-auth/v1/token", nil), "", body, &resp)
	if err != nil {
		var ue *Error
		if errors.As(err, &ue) && ue.Status >= 400 && ue.Status < 500 {
			return "", errors.Join(ErrInvalidCredentials, err)
		}
		return "", err
	}
	if resp.Token == "" {
		return "", ErrInvalidCredentials
	}
	return resp.Token, nil
}

// CurrentUser resolves the dashboard user behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var wp struct {
		ID    models.FlexInt `json:"id"`
		Email string         `json:"email"`
		Name  string         `json:"name"`
		Roles []string       `json:"roles"`
		Meta  struct {
			LojaID   models.FlexInt `json:"loja_id"`
			LojaNome string         `json:"loja_nome"`
		} `json:"meta"`
	}
	q := url.Values{"context": {"edit"}}
	if err := c.call(ctx, http.MethodGet, "wp/v2/users/me", c.rawURL("wp/v2/users/me", q), token, nil, &wp); err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:       wp.ID.Int64(),
		Email:    wp.Email,
		Name:     wp.Name,
		Role:     models.RoleLoja,
		LojaNome: wp.Meta.LojaNome,
	}
	if slices.Contains(wp.Roles, string(models.RoleAdministrator)) {
		u.Role = models.RoleAdministrator
	}
	if id := wp.Meta.LojaID.Int64(); id > 0 {
		u.LojaID = &id
	}
	return u, nil
}

// Ping checks that the upstream answers at all.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, c.rawURL("", nil), "", nil)
	if err != nil {
		return err
	}
	if resp.Status >= 500 {
		return &Error{Endpoint: "/", Status: resp.Status}
	}
	return nil
}
