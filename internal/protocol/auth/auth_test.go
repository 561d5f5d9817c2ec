package auth

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestClientProofShape checks the fixed 3-byte header plus digest layout
// described for the SCRAM final message proof field.
func TestClientProofShape(t *testing.T) {
	key := sha256Sum([]byte("key-material"))
	salt := []byte("0123456789abcdef")
	serverChallenge := bytes.Repeat([]byte{0x11}, 64)
	clientChallenge := bytes.Repeat([]byte{0x22}, 64)

	proof := clientProof(key, salt, serverChallenge, clientChallenge)
	if len(proof) != clientProofDataSize {
		t.Fatalf("len(proof) = %d, want %d", len(proof), clientProofDataSize)
	}
	if proof[0] != 0 {
		t.Errorf("status byte = %d, want 0", proof[0])
	}
	if proof[1] != 1 {
		t.Errorf("sub-field count = %d, want 1", proof[1])
	}
	if proof[2] != clientProofSize {
		t.Errorf("proof length field = %d, want %d", proof[2], clientProofSize)
	}
	if len(proof[3:]) != clientProofSize {
		t.Errorf("digest length = %d, want %d", len(proof[3:]), clientProofSize)
	}
}

// TestClientProofDeterministic checks the same inputs always derive the
// same proof, since the handshake only contributes randomness through the
// client challenge, not the proof derivation itself.
func TestClientProofDeterministic(t *testing.T) {
	key := clientKey(saltedPasswordSHA256([]byte("secret"), []byte("saltsaltsaltsalt")))
	salt := []byte("saltsaltsaltsalt")
	sc := bytes.Repeat([]byte{0x01}, 64)
	cc := bytes.Repeat([]byte{0x02}, 64)

	a := clientProof(key, salt, sc, cc)
	b := clientProof(key, salt, sc, cc)
	if !bytes.Equal(a, b) {
		t.Errorf("clientProof is not deterministic: %x != %x", a, b)
	}
}

// TestScramSHA256Handshake drives scramSHA256 through both rounds with a
// synthetic server reply and checks it produces a well-formed proof.
func TestScramSHA256Handshake(t *testing.T) {
	m := newScramSHA256("user", []byte("password"))
	_ = m.initRequest()

	salt := []byte("saltsaltsaltsalt")
	serverChallenge := bytes.Repeat([]byte{0xAB}, 64)
	if err := m.initReply(fields{salt, serverChallenge}); err != nil {
		t.Fatalf("initReply: %v", err)
	}

	f, err := m.finalRequest()
	if err != nil {
		t.Fatalf("finalRequest: %v", err)
	}
	if len(f) != 1 || len(f[0]) != clientProofDataSize {
		t.Fatalf("finalRequest fields = %v, want one %d-byte proof", f, clientProofDataSize)
	}

	want := serverProof(saltedPasswordSHA256([]byte("password"), salt), salt, serverChallenge, m.clientChallenge)
	if err := m.finalReply(fields{want}); err != nil {
		t.Errorf("finalReply with correct server proof: %v", err)
	}
}

// TestScramSHA256RejectsWrongServerProof checks that a server reply
// carrying any proof other than the expected one is rejected rather than
// accepted outright, since accepting it would let an impersonating server
// through.
func TestScramSHA256RejectsWrongServerProof(t *testing.T) {
	m := newScramSHA256("user", []byte("password"))
	_ = m.initRequest()

	salt := []byte("saltsaltsaltsalt")
	serverChallenge := bytes.Repeat([]byte{0xAB}, 64)
	if err := m.initReply(fields{salt, serverChallenge}); err != nil {
		t.Fatalf("initReply: %v", err)
	}
	if _, err := m.finalRequest(); err != nil {
		t.Fatalf("finalRequest: %v", err)
	}

	wrong := bytes.Repeat([]byte{0xFF}, 32)
	if err := m.finalReply(fields{wrong}); err == nil {
		t.Error("finalReply accepted a forged server proof")
	}
}

// TestScramPBKDF2SHA256Handshake exercises the extra round-count field
// scramPBKDF2SHA256 carries over scramSHA256.
func TestScramPBKDF2SHA256Handshake(t *testing.T) {
	m := newScramPBKDF2SHA256("user", []byte("password"))
	_ = m.initRequest()

	salt := []byte("saltsaltsaltsalt")
	serverChallenge := bytes.Repeat([]byte{0xCD}, 64)
	rounds := make([]byte, 4)
	binary.BigEndian.PutUint32(rounds, 15000)

	if err := m.initReply(fields{salt, serverChallenge, rounds}); err != nil {
		t.Fatalf("initReply: %v", err)
	}
	if m.rounds != 15000 {
		t.Errorf("rounds = %d, want 15000", m.rounds)
	}

	f, err := m.finalRequest()
	if err != nil {
		t.Fatalf("finalRequest: %v", err)
	}
	if len(f) != 1 || len(f[0]) != clientProofDataSize {
		t.Fatalf("finalRequest fields = %v, want one %d-byte proof", f, clientProofDataSize)
	}
}

// TestScramPBKDF2SHA256RejectsWeakRounds covers the minimum-work-factor
// guard: a server proposing fewer than minPBKDF2Rounds iterations must be
// rejected before any key derivation happens.
func TestScramPBKDF2SHA256RejectsWeakRounds(t *testing.T) {
	m := newScramPBKDF2SHA256("user", []byte("password"))
	salt := []byte("saltsaltsaltsalt")
	serverChallenge := bytes.Repeat([]byte{0xCD}, 64)
	rounds := make([]byte, 4)
	binary.BigEndian.PutUint32(rounds, minPBKDF2Rounds-1)

	if err := m.initReply(fields{salt, serverChallenge, rounds}); err == nil {
		t.Fatal("initReply accepted a round count below the minimum")
	}
}

// TestScramPBKDF2SHA256RejectsShortSalt covers the minimum-salt-length
// guard against a server supplying too little entropy to resist
// precomputation attacks.
func TestScramPBKDF2SHA256RejectsShortSalt(t *testing.T) {
	m := newScramPBKDF2SHA256("user", []byte("password"))
	salt := []byte("short")
	serverChallenge := bytes.Repeat([]byte{0xCD}, 64)
	rounds := make([]byte, 4)
	binary.BigEndian.PutUint32(rounds, minPBKDF2Rounds)

	if err := m.initReply(fields{salt, serverChallenge, rounds}); err == nil {
		t.Fatal("initReply accepted a salt shorter than the minimum")
	}
}

// TestNegotiatorPrefersPBKDF2 checks the method ordering a server sees: the
// negotiator offers PBKDF2 first since that is the stronger of the two.
func TestNegotiatorPrefersPBKDF2(t *testing.T) {
	n := NewNegotiator("user", "password")
	if len(n.methods) < 2 {
		t.Fatalf("expected at least two candidate methods, got %d", len(n.methods))
	}
	if n.methods[0].name() != MethodSCRAMPBKDF2SHA256 {
		t.Errorf("first offered method = %q, want %q", n.methods[0].name(), MethodSCRAMPBKDF2SHA256)
	}
}

// TestNegotiatorFullHandshake drives a Negotiator through both rounds
// against synthetic, hand-encoded server replies.
func TestNegotiatorFullHandshake(t *testing.T) {
	n := NewNegotiator("user", "password")
	_ = n.InitRequest()

	salt := []byte("saltsaltsaltsalt")
	serverChallenge := bytes.Repeat([]byte{0x33}, 64)
	sub := fields{salt, serverChallenge}
	initReply := fields{[]byte(MethodSCRAMSHA256), sub.encode()}.encode()

	if err := n.InitReply(initReply); err != nil {
		t.Fatalf("InitReply: %v", err)
	}
	if n.selected == nil || n.selected.name() != MethodSCRAMSHA256 {
		t.Fatalf("selected = %v, want %q", n.selected, MethodSCRAMSHA256)
	}

	req, err := n.FinalRequest()
	if err != nil {
		t.Fatalf("FinalRequest: %v", err)
	}
	if len(req) == 0 {
		t.Fatal("FinalRequest returned empty payload")
	}

	selected := n.selected.(*scramSHA256)
	wantProof := serverProof(saltedPasswordSHA256([]byte("password"), salt), salt, serverChallenge, selected.clientChallenge)
	finalSub := fields{wantProof}
	finalReply := fields{[]byte(MethodSCRAMSHA256), finalSub.encode()}.encode()
	if err := n.FinalReply(finalReply); err != nil {
		t.Fatalf("FinalReply: %v", err)
	}
}
