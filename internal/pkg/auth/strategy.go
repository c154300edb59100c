package auth

import "github.com/polkiloo/vinylstore/internal/domain/model"

// Strategy verifies session tokens issued by the marketplace.
type Strategy interface {
	ParseToken(token string) (model.Session, error)
}
