package profile

import (
	"errors"
	"fmt"

	"github.com/kalambet/resumed/internal/storage"
)

// DocumentBackend is the storage surface DBStore needs. Implemented by
// storage.Store.
type DocumentBackend interface {
	GetProfileDocument() (string, error)
	SaveProfileDocument(body string) error
}

// DBStore keeps the profile document in a database row.
type DBStore struct {
	backend DocumentBackend
}

func NewDBStore(backend DocumentBackend) *DBStore {
	return &DBStore{backend: backend}
}

func (s *DBStore) Get() (Document, error) {
	body, err := s.backend.GetProfileDocument()
	if errors.Is(err, storage.ErrNotFound) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return decodeStored([]byte(body))
}

func (s *DBStore) Save(doc Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.backend.SaveProfileDocument(string(data)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
