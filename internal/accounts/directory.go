// Package accounts is a file-backed directory of local dashboard users that
// sign in without going through the upstream JWT endpoint.
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/noxus/leadops/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Account struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"password_hash"`
	Role         models.Role `json:"role"`
	LojaID       *int64      `json:"loja_id"`
	LojaNome     string      `json:"loja_nome"`
	// APIToken is sent upstream as the bearer token for this account.
	APIToken     string      `json:"api_token"`
}

func (a *Account) User() models.User {
	return models.User{
		ID:       a.ID,
		Email:    a.Email,
		Name:     a.Name,
		Role:     a.Role,
		LojaID:   a.LojaID,
		LojaNome: a.LojaNome,
	}
}

type accountsFile struct {
	Users []Account `json:"users"`
}

type Directory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewDirectory() *Directory {
	return &Directory{
		accounts: make(map[string]*Account),
	}
}

// LoadFromFile reads a {"users": [...]} JSON file.
func LoadFromFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var file accountsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	dir := NewDirectory()
	for i := range file.Users {
		if err := dir.Register(&file.Users[i]); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) Register(a *Account) error {
	if normalize(a.Email) == "" {
		return errors.New("account email is required")
	}
	if a.Role == "" {
		a.Role = models.RoleLoja
	}
	if !a.Role.Valid() {
		return fmt.Errorf("account %s: invalid role %q", a.Email, a.Role)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[normalize(a.Email)] = a
	return nil
}

// Has reports whether email is managed by this directory.
func (d *Directory) Has(email string) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.accounts[normalize(email)]
	return ok
}

// Authenticate checks password against the stored bcrypt hash.
func (d *Directory) Authenticate(email, password string) (*Account, error) {
	if d == nil {
		return nil, ErrInvalidCredentials
	}
	d.mu.RLock()
	a, ok := d.accounts[normalize(email)]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

func (d *Directory) All() []*Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// HashPassword is used to produce password_hash values for the users file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
