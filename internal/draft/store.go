// Package draft persists the operator's in-progress cart state to the
// local filesystem so a panel restart does not lose work. The POS
// registry and the broken cart are stored under independent keys; a
// missing or corrupt document is reported as ErrNoDraft and callers
// fall back to an empty default, never crash.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dukerupert/vend/internal/cart"
	"github.com/dukerupert/vend/internal/returns"
)

const (
	registryFile   = "pos_carts.json"
	brokenCartFile = "broken_cart.json"
)

// ErrNoDraft means a draft document is absent or unreadable. Loaders
// treat both the same way: start from the default empty state.
var ErrNoDraft = errors.New("draft: no usable draft")

// Store keeps draft documents as JSON files in one directory.
type Store struct {
	dir string
}

// NewStore creates the draft directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create draft directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveRegistry persists the POS multi-cart draft.
func (s *Store) SaveRegistry(snap cart.RegistrySnapshot) error {
	return s.write(registryFile, snap)
}

// LoadRegistry restores the POS multi-cart draft.
func (s *Store) LoadRegistry() (cart.RegistrySnapshot, error) {
	var snap cart.RegistrySnapshot
	if err := s.read(registryFile, &snap); err != nil {
		return cart.RegistrySnapshot{}, err
	}
	return snap, nil
}

// SaveBrokenCart persists the broken-return draft.
func (s *Store) SaveBrokenCart(lines []returns.Line) error {
	return s.write(brokenCartFile, lines)
}

// LoadBrokenCart restores the broken-return draft.
func (s *Store) LoadBrokenCart() ([]returns.Line, error) {
	var lines []returns.Line
	if err := s.read(brokenCartFile, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// write marshals v and replaces the document atomically: the draft on
// disk is always a complete JSON file, even across a crash mid-save.
func (s *Store) write(name string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create draft temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close draft temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace draft: %w", err)
	}
	return nil
}

// read unmarshals a document into out, mapping absence and corruption
// to ErrNoDraft.
func (s *Store) read(name string, out any) error {
	payload, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoDraft
		}
		return fmt.Errorf("%w: %v", ErrNoDraft, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrNoDraft, err)
	}
	return nil
}
