package session

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Gate is the optional shared password that has to be entered before a session
// can use the app. A gate created with an empty password is disabled.
type Gate struct {
	hash []byte
}

func NewGate(password string) (*Gate, error) {
	if password == "" {
		return &Gate{}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing app password: %w", err)
	}
	return &Gate{hash: hash}, nil
}

func (g *Gate) Enabled() bool {
	return g != nil && len(g.hash) > 0
}

func (g *Gate) Check(password string) bool {
	if !g.Enabled() {
		return true
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
}
