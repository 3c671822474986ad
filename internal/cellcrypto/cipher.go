package cellcrypto

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"ctx3d/internal/ctxerr"
)

// Wire layout: MagicVersion(1B) || ephemeral pubkey(32B) || nonce(12B) ||
// sealed payload. The ephemeral keypair performs one-shot X25519 agreement
// with the recipient's static public key; HKDF-SHA256 over the shared
// secret derives the ChaCha20-Poly1305 key, following the same
// derive-then-seal shape as hkdf+chacha20poly1305 file encryption but
// replacing the pre-shared key with a per-message X25519 exchange so a
// plain recipient string, not a shared secret, is enough to encrypt.
const (
	magicVersion = 0xC3
	hkdfInfo     = "ctx3d-cell-encryption-v1"
)

// EncryptText seals plaintext for the given recipient, returning the wire
// ciphertext (spec §4.K: encrypt_text(plain, recipient) -> bytes).
func EncryptText(plain string, recipient Recipient) ([]byte, error) {
	var ephSecret [32]byte
	if _, err := io.ReadFull(rand.Reader, ephSecret[:]); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "generate ephemeral key")
	}
	ephSecret[0] &= 248
	ephSecret[31] &= 127
	ephSecret[31] |= 64

	ephPublic, err := curve25519.X25519(ephSecret[:], curve25519.Basepoint)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "derive ephemeral public key")
	}
	shared, err := curve25519.X25519(ephSecret[:], recipient.public[:])
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "X25519 key agreement")
	}

	key, err := deriveKey(shared, ephPublic, recipient.public[:])
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "initialize AEAD")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "generate nonce")
	}

	out := make([]byte, 0, 1+32+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, magicVersion)
	out = append(out, ephPublic...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plain), ephPublic)
	return out, nil
}

// DecryptText reverses EncryptText given the recipient's matching identity
// (spec §4.K: decrypt_text(ciphertext, identity_file) -> plaintext).
func DecryptText(ciphertext []byte, id Identity) (string, error) {
	const headerLen = 1 + 32
	if len(ciphertext) < headerLen {
		return "", ctxerr.Newf(ctxerr.KindCodec, "ciphertext too short: %d bytes", len(ciphertext))
	}
	if ciphertext[0] != magicVersion {
		return "", ctxerr.Newf(ctxerr.KindCodec, "unsupported cell encryption version %#x", ciphertext[0])
	}
	ephPublic := ciphertext[1:headerLen]

	shared, err := curve25519.X25519(id.secret[:], ephPublic)
	if err != nil {
		return "", ctxerr.Wrap(ctxerr.KindExternal, err, "X25519 key agreement")
	}
	recipientPublic, err := curve25519.X25519(id.secret[:], curve25519.Basepoint)
	if err != nil {
		return "", ctxerr.Wrap(ctxerr.KindExternal, err, "derive recipient public key")
	}

	key, err := deriveKey(shared, ephPublic, recipientPublic)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", ctxerr.Wrap(ctxerr.KindExternal, err, "initialize AEAD")
	}

	rest := ciphertext[headerLen:]
	if len(rest) < aead.NonceSize() {
		return "", ctxerr.Newf(ctxerr.KindCodec, "ciphertext missing nonce")
	}
	nonce, sealed := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, sealed, ephPublic)
	if err != nil {
		return "", ctxerr.Wrap(ctxerr.KindExternal, err, "decrypt cell: wrong identity or corrupt data")
	}
	return string(plain), nil
}

// deriveKey expands the X25519 shared secret into a ChaCha20-Poly1305 key,
// salted with both parties' public keys so a reused ephemeral scalar
// against different recipients never yields the same key.
func deriveKey(shared, ephPublic, recipientPublic []byte) ([]byte, error) {
	salt := append(append([]byte{}, ephPublic...), recipientPublic...)
	h := hkdf.New(sha256.New, shared, salt, []byte(hkdfInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "derive cell encryption key")
	}
	return key, nil
}
