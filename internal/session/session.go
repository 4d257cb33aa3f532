package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// GuestName is the display name before a customer introduces themselves.
const GuestName = "Guest"

// ErrInvalidInput is returned when the provided contact details are invalid.
var ErrInvalidInput = errors.New("session: invalid input")

// Session holds the current customer's identity and delivery contact.
// The zero session belongs to a guest with no contact details.
type Session struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ContactInput is the payload for updating the session contact details.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// Store owns the single interactive session. The engine validates the
// strings the presentation layer collected; it renders nothing itself.
type Store struct {
	mu       sync.Mutex
	current  Session
	validate *validator.Validate
}

// NewStore returns a store seeded with the guest session.
func NewStore() *Store {
	return &Store{
		current:  Session{Name: GuestName},
		validate: validator.New(),
	}
}

// Current returns a copy of the active session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetContact replaces the session identity and delivery contact. All
// three fields are required; deeper email syntax is enforced by the
// checkout gate, not here.
func (s *Store) SetContact(in ContactInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{Name: in.Name, Email: in.Email, Address: in.Address}
	return nil
}
