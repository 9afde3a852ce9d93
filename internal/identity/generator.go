package identity

import (
	"fmt"
	"time"
)

// Generator produces test identities whose email is made unique by the
// current unix timestamp.
type Generator struct {
	prefix string
	domain string
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for email suffixes.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		prefix: defaultEmailPrefix,
		domain: defaultDomain,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a fresh identity stamped with the current time.
func (g *Generator) Generate() Identity {
	now := g.now()
	return Identity{
		Email:     g.email(now),
		Password:  defaultPassword,
		FirstName: defaultFirstName,
		LastName:  defaultLastName,
		CreatedAt: now,
	}
}

// email builds <prefix>-<unix seconds>@<domain>. Two calls within the same
// second collide.
func (g *Generator) email(t time.Time) string {
	return fmt.Sprintf("%s-%d@%s", g.prefix, t.Unix(), g.domain)
}
