package cellcrypto

import (
	"strings"
	"testing"

	"ctx3d/internal/docmodel"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	id, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	recipient, err := id.Recipient()
	if err != nil {
		t.Fatalf("derive recipient: %v", err)
	}

	sealed, err := EncryptText("Q3 revenue: $4.2M", recipient)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(sealed) == 0 {
		t.Fatal("expected non-empty ciphertext")
	}

	plain, err := DecryptText(sealed, id)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "Q3 revenue: $4.2M" {
		t.Fatalf("round trip mismatch: got %q", plain)
	}
}

func TestDecryptWithWrongIdentityFails(t *testing.T) {
	id1, _ := GenerateIdentity()
	id2, _ := GenerateIdentity()
	recipient1, _ := id1.Recipient()

	sealed, err := EncryptText("secret", recipient1)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := DecryptText(sealed, id2); err == nil {
		t.Fatal("expected decryption to fail with the wrong identity")
	}
}

func TestIdentityStringRoundTrip(t *testing.T) {
	id, _ := GenerateIdentity()
	encoded := id.String()
	if !strings.HasPrefix(encoded, identityPrefix) {
		t.Fatalf("expected %s prefix, got %q", identityPrefix, encoded)
	}
	parsed, err := ParseIdentity(encoded)
	if err != nil {
		t.Fatalf("parse identity: %v", err)
	}
	if parsed.secret != id.secret {
		t.Fatal("parsed identity does not match original")
	}
}

func TestRecipientStringRoundTrip(t *testing.T) {
	id, _ := GenerateIdentity()
	recipient, _ := id.Recipient()
	encoded := recipient.String()
	parsed, err := ParseRecipient(encoded)
	if err != nil {
		t.Fatalf("parse recipient: %v", err)
	}
	if parsed.public != recipient.public {
		t.Fatal("parsed recipient does not match original")
	}
}

func TestLoadIdentityFileSkipsComments(t *testing.T) {
	id, _ := GenerateIdentity()
	content := "# a comment\n\n" + id.String() + "\n"
	loaded, err := LoadIdentityFile(content)
	if err != nil {
		t.Fatalf("load identity file: %v", err)
	}
	if loaded.secret != id.secret {
		t.Fatal("loaded identity does not match original")
	}
}

func TestRedactDocumentRoundTrip(t *testing.T) {
	id, _ := GenerateIdentity()
	recipient, _ := id.Recipient()

	doc := &docmodel.Document{
		Cells: []docmodel.Cell{
			{Z: 0, X: 0, Y: 0, CellType: docmodel.Text},
			{Z: 0, X: 1, Y: 0, CellType: docmodel.Table},
		},
	}
	texts := map[docmodel.Cell]string{
		doc.Cells[0]: "public summary",
		doc.Cells[1]: "confidential figures",
	}
	redactTypes := map[docmodel.CellType]struct{}{docmodel.Table: {}}

	data, err := RedactDocument(doc, redactTypes, recipient, func(c docmodel.Cell) string { return texts[c] })
	if err != nil {
		t.Fatalf("redact document: %v", err)
	}

	rows, err := DecodeRedactedFile(data, id)
	if err != nil {
		t.Fatalf("decode redacted file: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Encrypted || rows[0].Text != "public summary" {
		t.Fatalf("expected first cell to remain plaintext, got %+v", rows[0])
	}
	if !rows[1].Encrypted || rows[1].Text != "confidential figures" {
		t.Fatalf("expected second cell decrypted, got %+v", rows[1])
	}
}

func TestIdentityDecryptor(t *testing.T) {
	id, _ := GenerateIdentity()
	recipient, _ := id.Recipient()
	sealed, err := EncryptText("internal note", recipient)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	dec, err := NewIdentityDecryptor(id.String())
	if err != nil {
		t.Fatalf("new identity decryptor: %v", err)
	}
	plain, err := dec.Decrypt(sealed, EncryptionScheme)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "internal note" {
		t.Fatalf("expected decrypted text, got %q", plain)
	}
}
