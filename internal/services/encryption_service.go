package services

import (
	"moodjournal/internal/crypto"
	"moodjournal/internal/models"
)

// EncryptionService wraps the crypto cipher with domain-specific methods.
// A nil *EncryptionService is valid and leaves every field untouched, which is
// how the service runs when no ENCRYPTION_KEY is configured.
type EncryptionService struct {
	cipher *crypto.Cipher
}

// NewEncryptionService creates a new encryption service
func NewEncryptionService(secret []byte) (*EncryptionService, error) {
	c, err := crypto.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// EncryptEntry encrypts the free-text entry fields before storing them.
// Mood and score stay in clear so that stats can be computed by the store.
func (s *EncryptionService) EncryptEntry(e *models.Entry) error {
	if s == nil {
		return nil
	}
	title, err := s.cipher.Encrypt(e.Title)
	if err != nil {
		return err
	}
	content, err := s.cipher.Encrypt(e.Content)
	if err != nil {
		return err
	}
	e.Title, e.Content = title, content
	return nil
}

// DecryptEntry decrypts entry fields after retrieving them.
func (s *EncryptionService) DecryptEntry(e *models.Entry) error {
	if s == nil {
		return nil
	}
	title, err := s.cipher.Decrypt(e.Title)
	if err != nil {
		return err
	}
	content, err := s.cipher.Decrypt(e.Content)
	if err != nil {
		return err
	}
	e.Title, e.Content = title, content
	return nil
}

// EncryptUpdate encrypts the replacement fields of an update.
func (s *EncryptionService) EncryptUpdate(u *models.EntryUpdate) error {
	if s == nil {
		return nil
	}
	e := models.Entry{Title: u.Title, Content: u.Content}
	if err := s.EncryptEntry(&e); err != nil {
		return err
	}
	u.Title, u.Content = e.Title, e.Content
	return nil
}

func (s *EncryptionService) EncryptRecapText(text string) (string, error) {
	if s == nil {
		return text, nil
	}
	return s.cipher.Encrypt(text)
}

func (s *EncryptionService) DecryptRecap(r *models.WeeklyRecap) error {
	if s == nil {
		return nil
	}
	text, err := s.cipher.Decrypt(r.RecapText)
	if err != nil {
		return err
	}
	r.RecapText = text
	return nil
}
