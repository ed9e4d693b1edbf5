// Package encoder encrypts export files with an age passphrase.
package encoder

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
)

// Extension is appended to the name of encrypted files.
const Extension = ".age"

type Encryptor struct {
	recipient *age.ScryptRecipient
	identity  *age.ScryptIdentity
}

func NewEncryptor(password string) (*Encryptor, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return &Encryptor{
		recipient: recipient,
		identity:  identity,
	}, nil
}

// NewWriter returns a writer that encrypts everything written to it.
// The caller must Close it to flush the last chunk.
func (e *Encryptor) NewWriter(output io.Writer) (io.WriteCloser, error) {
	return age.Encrypt(output, e.recipient)
}

func (e *Encryptor) DecryptReader(input io.Reader) (io.Reader, error) {
	r, err := age.Decrypt(input, e.identity)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt (wrong password?): %w", err)
	}
	return r, nil
}

// Encrypt seals data in memory. Export files are small enough to be
// built whole before upload.
func (e *Encryptor) Encrypt(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := e.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to start encryption: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish encryption: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *Encryptor) Decrypt(data []byte) ([]byte, error) {
	r, err := e.DecryptReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read decrypted data: %w", err)
	}
	return out, nil
}
