package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// EncryptedSuffix is appended to keys of age-encrypted snapshots.
const EncryptedSuffix = ".age"

// AgeStore encrypts every blob to a recipient before handing it to the
// wrapped store.
type AgeStore struct {
	inner     Store
	recipient age.Recipient
}

var _ Store = (*AgeStore)(nil)

func NewAgeStore(inner Store, recipient age.Recipient) *AgeStore {
	return &AgeStore{inner: inner, recipient: recipient}
}

// KeyFor returns the key an encrypted blob is stored under.
func (s *AgeStore) KeyFor(key string) string {
	return key + EncryptedSuffix
}

func (s *AgeStore) Location() string { return s.inner.Location() }

// Put encrypts r and stores the ciphertext under key. Callers that want the
// ".age" suffix pass KeyFor(key).
func (s *AgeStore) Put(ctx context.Context, key string, r io.Reader, _ int64) error {
	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, s.recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return s.inner.Put(ctx, key, &buf, int64(buf.Len()))
}

// LoadRecipient reads the first age recipient from a public key file.
func LoadRecipient(path string) (age.Recipient, error) {
	pubData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(pubData))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in public key file")
	}
	return recipients[0], nil
}
