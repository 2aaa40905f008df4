package artifact

import (
	"errors"
	"fmt"

	"github.com/wonny/ohaasa/backend/pkg/jsonfile"
)

// ErrArtifactNotFound is returned when no artifact has been written yet
var ErrArtifactNotFound = errors.New("artifact not found")

// Store reads and writes the artifact file
type Store struct {
	path string
}

// NewStore creates a store for path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact location
func (s *Store) Path() string {
	return s.path
}

// Save writes p atomically
func (s *Store) Save(p *Payload) error {
	if err := jsonfile.Write(s.path, p); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	return nil
}

// LoadBytes returns the raw artifact; consumers normalize it themselves
func (s *Store) LoadBytes() ([]byte, error) {
	data, err := jsonfile.ReadBytes(s.path)
	if errors.Is(err, jsonfile.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.path)
	}
	return data, err
}
