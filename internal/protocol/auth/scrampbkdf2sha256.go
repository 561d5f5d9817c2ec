package auth

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
)

// scramPBKDF2SHA256 implements the SCRAMPBKDF2SHA256 method: identical to
// scramSHA256 except the server additionally supplies a PBKDF2 round count
// used to stretch the password before deriving the SCRAM key.
type scramPBKDF2SHA256 struct {
	username string
	password []byte

	clientChallenge []byte
	salt            []byte
	serverChallenge []byte
	rounds          int
	wantServerProof []byte
}

func newScramPBKDF2SHA256(username string, password []byte) *scramPBKDF2SHA256 {
	return &scramPBKDF2SHA256{username: username, password: password}
}

func (s *scramPBKDF2SHA256) name() string { return MethodSCRAMPBKDF2SHA256 }

func (s *scramPBKDF2SHA256) initRequest() fields {
	cc, err := newClientChallenge()
	if err != nil {
		cc = make([]byte, clientChallengeSize)
	}
	s.clientChallenge = cc
	return fields{cc}
}

// minPBKDF2Rounds and minSaltSize guard against a server (or an attacker
// positioned as one) downgrading the key-stretching work factor to
// something brute-forceable.
const (
	minPBKDF2Rounds = 15000
	minSaltSize     = 16
)

func (s *scramPBKDF2SHA256) initReply(f fields) error {
	if len(f) < 3 {
		return fmt.Errorf("auth: scrampbkdf2sha256 init reply: expected salt, server challenge, rounds")
	}
	s.salt = f[0]
	s.serverChallenge = f[1]
	if len(f[2]) != 4 {
		return fmt.Errorf("auth: scrampbkdf2sha256 init reply: malformed round count")
	}
	s.rounds = int(binary.BigEndian.Uint32(f[2]))
	if s.rounds < minPBKDF2Rounds {
		return fmt.Errorf("auth: scrampbkdf2sha256 round count %d below minimum %d", s.rounds, minPBKDF2Rounds)
	}
	if len(s.salt) < minSaltSize {
		return fmt.Errorf("auth: scrampbkdf2sha256 salt length %d below minimum %d", len(s.salt), minSaltSize)
	}
	return nil
}

func (s *scramPBKDF2SHA256) finalRequest() (fields, error) {
	saltedPassword := saltedPasswordPBKDF2SHA256(s.password, s.salt, s.rounds)
	key := clientKey(saltedPassword)
	proof := clientProof(key, s.salt, s.serverChallenge, s.clientChallenge)
	s.wantServerProof = serverProof(saltedPassword, s.salt, s.serverChallenge, s.clientChallenge)
	return fields{proof}, nil
}

func (s *scramPBKDF2SHA256) finalReply(f fields) error {
	if len(f) < 1 {
		return fmt.Errorf("auth: scrampbkdf2sha256 final reply: expected server proof")
	}
	if !hmac.Equal(f[0], s.wantServerProof) {
		return fmt.Errorf("auth: scrampbkdf2sha256 server proof mismatch, server identity not verified")
	}
	return nil
}
