package cellcrypto

import (
	"ctx3d/internal/ctxerr"
)

// IdentityDecryptor implements internal/retrieve's Decryptor interface
// against a single loaded identity, matching spec §4.K's constraint that
// the retrieval store only attempts decryption when a configured identity
// file is available.
type IdentityDecryptor struct {
	id Identity
}

// NewIdentityDecryptor builds a decryptor from identity-file content.
func NewIdentityDecryptor(identityFileContent string) (*IdentityDecryptor, error) {
	id, err := LoadIdentityFile(identityFileContent)
	if err != nil {
		return nil, err
	}
	return &IdentityDecryptor{id: id}, nil
}

// Decrypt unseals the raw ciphertext bytes stored in the text_encrypted
// column (no base64 layer is involved). The
// encryption column is currently informational (always "x25519-chacha20poly1305")
// and is accepted rather than validated so future scheme additions don't
// require a retrieve-layer change.
func (d *IdentityDecryptor) Decrypt(ciphertext []byte, encryption string) (string, error) {
	if d == nil {
		return "", ctxerr.Newf(ctxerr.KindConfiguration, "no identity configured for decryption")
	}
	return DecryptText(ciphertext, d.id)
}

// EncryptionScheme names the construction this package implements, stored
// in the cells.encryption column alongside each sealed cell.
const EncryptionScheme = "x25519-chacha20poly1305"
