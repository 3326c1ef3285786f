package models

import "time"

// Role is the access level of a dashboard user.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleLoja          Role = "loja"
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleLoja
}

// User is the authenticated dashboard user. Store users carry the store they belong to.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	LojaID   *int64 `json:"loja_id"`
	LojaNome string `json:"loja_nome,omitempty"`
}

// Session is what the crm_session cookie carries between requests.
type Session struct {
	User    User      `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.Expires.After(now)
}
