package test

import (
	"errors"
	"strings"
)

// ErrHashStub is returned by HasherStub on failed comparison.
var ErrHashStub = errors.New("hash mismatch")

// HasherStub prefixes passwords instead of hashing them.
type HasherStub struct {
	HashErr error
}

// Hash returns "hash:" + password unless HashErr is set.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashErr != nil {
		return "", h.HashErr
	}
	return "hash:" + password, nil
}

// Compare checks that hash was produced by Hash for password.
func (h HasherStub) Compare(hash string, password string) error {
	if strings.TrimPrefix(hash, "hash:") != password || !strings.HasPrefix(hash, "hash:") {
		return ErrHashStub
	}
	return nil
}
