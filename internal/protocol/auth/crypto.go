package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	clientChallengeSize     = 64
	clientProofDataSize     = 35
	clientProofSize         = 32
)

func sha256Sum(p []byte) []byte {
	h := sha256.New()
	h.Write(p)
	return h.Sum(nil)
}

func hmacSum(key, p []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(p)
	return h.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	r := make([]byte, len(a))
	for i := range a {
		r[i] = a[i] ^ b[i]
	}
	return r
}

func newClientChallenge() ([]byte, error) {
	r := make([]byte, clientChallengeSize)
	if _, err := rand.Read(r); err != nil {
		return nil, err
	}
	return r, nil
}

// saltedPasswordSHA256 derives the SCRAM salted password for SCRAMSHA256:
// an HMAC keyed by the plain-text password over the salt. It is the shared
// basis both the client proof's key and the server proof's verifier fold
// out of, so callers needing either (or both, to check the server's
// answer) derive it once and pass it to clientKey/serverProof.
func saltedPasswordSHA256(password, salt []byte) []byte {
	return hmacSum(password, salt)
}

// saltedPasswordPBKDF2SHA256 derives the SCRAM salted password for
// SCRAMPBKDF2SHA256 by stretching the password through PBKDF2-HMAC-SHA256.
func saltedPasswordPBKDF2SHA256(password, salt []byte, rounds int) []byte {
	return pbkdf2.Key(password, salt, rounds, clientProofSize, sha256.New)
}

// clientKey folds a salted password down to the SCRAM client key used by
// clientProof.
func clientKey(saltedPassword []byte) []byte {
	return sha256Sum(saltedPassword)
}

// clientProof builds the SCRAM final-message proof field: a 3-byte header
// (always-zero status byte, a constant "1" sub-field count, the proof
// length) followed by HMAC(SHA256(key), salt||serverChallenge||clientChallenge) XOR key.
func clientProof(key, salt, serverChallenge, clientChallenge []byte) []byte {
	buf := make([]byte, 0, len(salt)+len(serverChallenge)+len(clientChallenge))
	buf = append(buf, salt...)
	buf = append(buf, serverChallenge...)
	buf = append(buf, clientChallenge...)

	sig := hmacSum(sha256Sum(key), buf)
	proof := xorBytes(sig, key)

	out := make([]byte, clientProofDataSize)
	out[0] = 0
	out[1] = 1
	out[2] = clientProofSize
	copy(out[3:], proof)
	return out
}

// serverProof derives the proof the server must return in its final reply
// to show it holds the real salted password rather than merely having
// observed this handshake: an HMAC, keyed by HMAC(saltedPassword, salt),
// over clientChallenge||salt||serverChallenge. Comparing this against what
// the server actually sends is what turns the handshake into mutual
// authentication instead of a one-way client proof.
func serverProof(saltedPassword, salt, serverChallenge, clientChallenge []byte) []byte {
	verifier := hmacSum(saltedPassword, salt)

	buf := make([]byte, 0, len(clientChallenge)+len(salt)+len(serverChallenge))
	buf = append(buf, clientChallenge...)
	buf = append(buf, salt...)
	buf = append(buf, serverChallenge...)

	return hmacSum(verifier, buf)
}
