package rippling

import (
	"context"
	"fmt"
	"net/http"

	"github.com/s0up4200/ptoctl/credstore"
)

// Tenant header names sent when the session carries tenant context.
const (
	HeaderCompany = "company"
	HeaderRole    = "role"
)

// Session holds the access token and tenant context and issues authenticated
// requests. It does no locking; share one across goroutines only with
// external synchronisation.
type Session struct {
	client      *Client
	accessToken string
	company     *string
	role        *string
}

// NewSession creates a session without tenant context. An empty token panics:
// a session without credentials cannot exist.
func NewSession(c *Client, token string) *Session {
	if token == "" {
		panic("rippling: session requires an access token")
	}
	return &Session{client: c, accessToken: token}
}

// FromState rebuilds a session from persisted state. It panics when the state
// has no access token.
func FromState(c *Client, state credstore.State) *Session {
	if !state.HasToken() {
		panic(fmt.Sprintf("rippling: %v", credstore.ErrMissingToken))
	}
	s := NewSession(c, state.AccessToken)
	s.SetTenant(state.CompanyID, state.RoleID)
	return s
}

// Restore loads state from store and rebuilds the session. It panics when the
// store cannot be read or no token was ever persisted.
func Restore(c *Client, store credstore.Store) *Session {
	state, err := store.Load()
	if err != nil {
		panic(fmt.Sprintf("rippling: failed to load credentials: %v", err))
	}
	return FromState(c, state)
}

// Persist writes the session's token and tenant context to store,
// overwriting whatever was stored before.
func (s *Session) Persist(store credstore.Store) error {
	if err := store.Save(s.State()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// State returns the serialisable form of the session.
func (s *Session) State() credstore.State {
	state := credstore.State{AccessToken: s.accessToken}
	if s.company != nil {
		state.CompanyID = *s.company
	}
	if s.role != nil {
		state.RoleID = *s.role
	}
	return state
}

// SetTenant sets company and role together. Empty values leave the
// corresponding header off.
func (s *Session) SetTenant(company, role string) {
	s.SetCompany(company)
	s.SetRole(role)
}

// SetCompany sets the company id alone. An empty id clears it.
func (s *Session) SetCompany(company string) {
	s.company = optional(company)
}

// SetRole sets the role id alone. An empty id clears it.
func (s *Session) SetRole(role string) {
	s.role = optional(role)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Company returns the company id and whether it is set.
func (s *Session) Company() (string, bool) {
	if s.company == nil {
		return "", false
	}
	return *s.company, true
}

// Role returns the role id and whether it is set.
func (s *Session) Role() (string, bool) {
	if s.role == nil {
		return "", false
	}
	return *s.role, true
}

// Get returns an authenticated GET request for path.
func (s *Session) Get(path string) Request {
	return s.request(http.MethodGet, path)
}

// Post returns an authenticated POST request for path.
func (s *Session) Post(path string) Request {
	return s.request(http.MethodPost, path)
}

func (s *Session) request(method, path string) Request {
	req := s.client.NewRequest(method, path).WithBearerAuth(s.accessToken)
	if s.company != nil {
		req = req.WithHeader(HeaderCompany, *s.company)
	}
	if s.role != nil {
		req = req.WithHeader(HeaderRole, *s.role)
	}
	return req
}

// GetJSON sends an authenticated GET for path and decodes the body into a T
// using the default accepted statuses.
func GetJSON[T any](ctx context.Context, s *Session, path string) (T, error) {
	resp, err := s.Get(path).Send(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return ParseJSON[T](resp)
}
