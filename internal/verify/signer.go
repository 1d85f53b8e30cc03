// Package verify authenticates and re-grades player submissions.
// A submission is accepted only when its HMAC matches and an offline run of
// the submitted board succeeds; accepted solutions are persisted through a
// SolutionSaver.
package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// ErrNoKey is returned when a signer is created without key material.
var ErrNoKey = errors.New("verify: empty signing key")

// Signer computes and checks HMAC-SHA256 signatures over submissions.
type Signer struct {
	key []byte
}

// NewSigner creates a signer for the given key.
func NewSigner(key []byte) (*Signer, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Signer{key: k}, nil
}

// KeyFromEnv reads the signing key from the named environment variable.
func KeyFromEnv(name string) ([]byte, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil, fmt.Errorf("verify: environment variable %s is not set", name)
	}
	return []byte(v), nil
}

// Sign returns the hex-encoded signature for sub. sub.Signature is ignored.
func (s *Signer) Sign(sub Submission) string {
	return hex.EncodeToString(s.mac(sub))
}

// Check reports whether sub carries a valid signature.
func (s *Signer) Check(sub Submission) bool {
	got, err := hex.DecodeString(sub.Signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, s.mac(sub))
}

// mac hashes the length-prefixed level, player and board fields so that
// no two distinct submissions share a message.
func (s *Signer) mac(sub Submission) []byte {
	h := hmac.New(sha256.New, s.key)
	var n [8]byte
	for _, field := range [][]byte{[]byte(sub.LevelID), []byte(sub.Player), sub.Board} {
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write(field)
	}
	return h.Sum(nil)
}
