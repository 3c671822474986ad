// Package cellcrypto implements the per-cell recipient-wrapped encryption
// path (spec §4.K): an X25519 key agreement wraps a per-message symmetric
// key, which then seals the plaintext with ChaCha20-Poly1305. The
// construction mirrors filippo.io/age's recipient/identity model but is
// built directly on golang.org/x/crypto primitives (curve25519, hkdf,
// chacha20poly1305) rather than the age wire format itself.
package cellcrypto

import (
	"crypto/rand"
	"encoding/base32"
	"io"
	"strings"

	"golang.org/x/crypto/curve25519"

	"ctx3d/internal/ctxerr"
)

const (
	recipientPrefix = "ctx3dpk1"
	identityPrefix  = "CTX3D-SECRET-KEY-1"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Recipient is an X25519 public key, serialized as a short prefixed,
// base32-encoded string suitable for passing on a command line.
type Recipient struct {
	public [32]byte
}

// Identity is an X25519 private key paired with the Recipient above.
type Identity struct {
	secret [32]byte
}

// GenerateIdentity creates a fresh X25519 keypair.
func GenerateIdentity() (Identity, error) {
	var secret [32]byte
	if _, err := io.ReadFull(rand.Reader, secret[:]); err != nil {
		return Identity{}, ctxerr.Wrap(ctxerr.KindExternal, err, "generate identity key")
	}
	// Clamp per RFC 7748 so every 32-byte string is a valid scalar.
	secret[0] &= 248
	secret[31] &= 127
	secret[31] |= 64
	return Identity{secret: secret}, nil
}

// Recipient derives this identity's public recipient key.
func (id Identity) Recipient() (Recipient, error) {
	pub, err := curve25519.X25519(id.secret[:], curve25519.Basepoint)
	if err != nil {
		return Recipient{}, ctxerr.Wrap(ctxerr.KindExternal, err, "derive recipient from identity")
	}
	var r Recipient
	copy(r.public[:], pub)
	return r, nil
}

// String encodes the identity as "CTX3D-SECRET-KEY-1<base32>", matching the
// uppercase bech32-style envelope age identities use, without bech32's
// checksum since the pack carries no bech32 dependency.
func (id Identity) String() string {
	return identityPrefix + strings.ToUpper(encoding.EncodeToString(id.secret[:]))
}

// ParseIdentity reverses Identity.String.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, identityPrefix) {
		return Identity{}, ctxerr.Newf(ctxerr.KindConfiguration, "identity %q missing %s prefix", s, identityPrefix)
	}
	raw, err := encoding.DecodeString(strings.ToUpper(strings.TrimPrefix(s, identityPrefix)))
	if err != nil {
		return Identity{}, ctxerr.Wrap(ctxerr.KindConfiguration, err, "decode identity")
	}
	if len(raw) != 32 {
		return Identity{}, ctxerr.Newf(ctxerr.KindConfiguration, "identity must decode to 32 bytes, got %d", len(raw))
	}
	var id Identity
	copy(id.secret[:], raw)
	return id, nil
}

// String encodes the recipient as "ctx3dpk1<base32>".
func (r Recipient) String() string {
	return recipientPrefix + encoding.EncodeToString(r.public[:])
}

// ParseRecipient reverses Recipient.String.
func ParseRecipient(s string) (Recipient, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, recipientPrefix) {
		return Recipient{}, ctxerr.Newf(ctxerr.KindConfiguration, "recipient %q missing %s prefix", s, recipientPrefix)
	}
	raw, err := encoding.DecodeString(strings.TrimPrefix(s, recipientPrefix))
	if err != nil {
		return Recipient{}, ctxerr.Wrap(ctxerr.KindConfiguration, err, "decode recipient")
	}
	if len(raw) != 32 {
		return Recipient{}, ctxerr.Newf(ctxerr.KindConfiguration, "recipient must decode to 32 bytes, got %d", len(raw))
	}
	var r Recipient
	copy(r.public[:], raw)
	return r, nil
}

// LoadIdentityFile reads the first non-comment, non-empty line of an
// identity file, mirroring the reference's age-identity-file convention.
func LoadIdentityFile(content string) (Identity, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return ParseIdentity(line)
	}
	return Identity{}, ctxerr.Newf(ctxerr.KindConfiguration, "identity file contains no key line")
}
