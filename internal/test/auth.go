package test

import (
	"github.com/polkiloo/vinylstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/vinylstore/internal/pkg/auth"
)

// StrategyStub parses session tokens via function overrides.
// Without ParseFn it accepts tokens present in Sessions.
type StrategyStub struct {
	ParseFn  func(string) (model.Session, error)
	Sessions map[string]model.Session
}

var _ pkgAuth.Strategy = StrategyStub{}

// ParseToken resolves token into a session.
func (s StrategyStub) ParseToken(token string) (model.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if session, ok := s.Sessions[token]; ok {
		session.Token = token
		return session, nil
	}
	return model.Session{}, pkgAuth.ErrInvalidToken
}
