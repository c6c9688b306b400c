// Package credstore persists session credentials to a local store.
package credstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Common errors
var (
	// ErrMissingToken indicates stored state has no access token
	ErrMissingToken = errors.New("stored state is missing an access token")
	// ErrUnsupportedStore indicates an unknown store kind
	ErrUnsupportedStore = errors.New("unsupported credential store")
)

// Store kinds accepted by New.
const (
	KindFile = "file"
	KindBolt = "bbolt"
)

// State is the serialisable form of a session. Empty fields are absent.
type State struct {
	AccessToken string `yaml:"access_token,omitempty" json:"access_token,omitempty"`
	CompanyID   string `yaml:"company_id,omitempty" json:"company_id,omitempty"`
	RoleID      string `yaml:"role_id,omitempty" json:"role_id,omitempty"`
}

// HasToken reports whether an access token is present.
func (s State) HasToken() bool {
	return s.AccessToken != ""
}

// Store loads and saves State. Load on a store that was never written
// returns a zero State and no error.
type Store interface {
	Load() (State, error)
	Save(State) error
	Delete() error
	Close() error
}

// New creates the configured store. An empty kind selects the file store.
func New(kind, path string) (Store, error) {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("credential store %q requires a path", kind)
	}

	switch kind {
	case "", KindFile:
		return NewFileStore(afero.NewOsFs(), path), nil
	case KindBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, kind)
	}
}
