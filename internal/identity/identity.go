// Package identity generates the throwaway account used for a probe run.
// Identities are never stored; one is created per invocation.
package identity

import "time"

// Identity holds the registration details for a disposable test user.
type Identity struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"-"`
}
