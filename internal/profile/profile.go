// Package profile persists the single user profile document. The document
// is schema-less: any JSON object is accepted and stored as a whole.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Document is the user's profile: an arbitrary JSON object.
type Document map[string]any

// ErrCorrupt is returned when a stored document exists but is not a valid
// JSON object.
var ErrCorrupt = errors.New("profile document is corrupt")

// ErrNotObject is returned by Decode when the input is valid JSON but not an object.
var ErrNotObject = errors.New("profile must be a JSON object")

// Store reads and replaces the profile document.
type Store interface {
	// Get returns the stored document, or an empty Document if none was saved.
	Get() (Document, error)
	// Save replaces the stored document in full.
	Save(doc Document) error
}

// Decode parses a single JSON object. Numbers are kept as json.Number so
// large integers survive a save/get round trip unchanged.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decoding profile: unexpected data after JSON object")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Document(obj), nil
}

func decodeStored(data []byte) (Document, error) {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

func encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	return b, nil
}
