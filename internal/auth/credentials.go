// Package auth holds the fixed credential table users log in against.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is one configured login. PasswordHash is a salted bcrypt hash.
type Account struct {
	Username     string
	PasswordHash string
	Role         string
}

// User is the authenticated principal for a request. Role is advisory and never enforced.
type User struct {
	Username string
	Role     string
}

// Store is a read-only credential table built once at process start.
type Store struct {
	accounts  map[string]Account
	dummyHash []byte
}

// NewStore validates the accounts and freezes them into a Store.
func NewStore(accounts []Account) (*Store, error) {
	s := &Store{accounts: make(map[string]Account, len(accounts))}

	for _, a := range accounts {
		if strings.TrimSpace(a.Username) == "" {
			return nil, errors.New("credential entry with empty username")
		}
		if _, dup := s.accounts[a.Username]; dup {
			return nil, fmt.Errorf("duplicate credential entry for %q", a.Username)
		}
		cost, err := bcrypt.Cost([]byte(a.PasswordHash))
		if err != nil {
			return nil, fmt.Errorf("password for %q is not a bcrypt hash: %w", a.Username, err)
		}
		s.accounts[a.Username] = a

		// Unknown usernames are compared against a hash of the same cost.
		if s.dummyHash == nil {
			s.dummyHash, err = bcrypt.GenerateFromPassword([]byte("qms-unknown-user"), cost)
			if err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(username, password string) (User, error) {
	account, ok := s.accounts[username]
	if !ok {
		if s.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		}
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return User{Username: account.Username, Role: account.Role}, nil
}

// Lookup rebuilds the User for a username carried by a session.
func (s *Store) Lookup(username string) (User, bool) {
	account, ok := s.accounts[username]
	if !ok {
		return User{}, false
	}
	return User{Username: account.Username, Role: account.Role}, true
}

// Len reports the number of configured accounts.
func (s *Store) Len() int {
	return len(s.accounts)
}

// HashPassword returns a salted bcrypt hash suitable for the users table in config.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// DefaultAccounts is the built-in table used when no users are configured.
func DefaultAccounts(cost int) ([]Account, error) {
	defaults := []struct{ username, password, role string }{
		{"admin", "admin123", "admin"},
		{"jane", "viewer123", "viewer"},
	}

	accounts := make([]Account, 0, len(defaults))
	for _, d := range defaults {
		hash, err := HashPassword(d.password, cost)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, Account{Username: d.username, PasswordHash: hash, Role: d.role})
	}
	return accounts, nil
}
