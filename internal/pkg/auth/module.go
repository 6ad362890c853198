package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/userstore/internal/config"
)

// Module provides the password hasher selected by configuration.
var Module = fx.Provide(newPasswordHasher)

func newPasswordHasher(cfg *config.Config) PasswordHasher {
	if !cfg.PasswordHashing {
		return PlainHasher{}
	}
	return NewBcryptHasher(0)
}
