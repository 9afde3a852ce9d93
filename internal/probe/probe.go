// Package probe runs the register-then-check flow against the portal and
// records what happened at each step.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zarlcorp/zprobe/internal/identity"
	"github.com/zarlcorp/zprobe/internal/portal"
)

// Client is the portal API surface the probe drives.
type Client interface {
	Register(ctx context.Context, id identity.Identity) (*portal.Session, error)
	CheckBestBuy(ctx context.Context, token string) (*portal.CheckResult, error)
}

// IdentitySource produces the throwaway account for a run.
type IdentitySource interface {
	Generate() identity.Identity
}

// Reporter is told about each step as it starts and finishes so output can
// be rendered while the probe is running.
type Reporter interface {
	Begin()
	RegisterStarted(id identity.Identity)
	RegisterDone(sess *portal.Session, err error)
	CheckStarted()
	CheckDone(res *portal.CheckResult, err error)
}

// Outcome classifies a finished run.
type Outcome int

const (
	OutcomeRegistrationError Outcome = iota
	OutcomeCheckError
	OutcomePassed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRegistrationError:
		return "registration error"
	case OutcomeCheckError:
		return "check error"
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Request describes one probe run.
type Request struct {
	Client     Client
	Identities IdentitySource
	Reporter   Reporter     // nil discards progress
	Logger     *slog.Logger // nil discards diagnostics
}

// StepStatus records the outcome of one step.
type StepStatus struct {
	Description string
	Err         error
}

// Result summarizes a completed run.
type Result struct {
	Identity identity.Identity
	Outcome  Outcome
	Check    *portal.CheckResult // nil unless the check call returned a body
	Steps    []StepStatus
}

// HasErrors returns true if any step failed at the transport or protocol level.
// A check that reports success=false is not an error.
func (r Result) HasErrors() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the run.
func (r Result) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "bestbuy probe %s", r.Outcome)

	for _, s := range r.Steps {
		if s.Err != nil {
			fmt.Fprintf(&b, "\n- %s: %v", s.Description, s.Err)
		} else {
			fmt.Fprintf(&b, "\n- %s", s.Description)
		}
	}

	return b.String()
}

// Run executes the probe. Steps run strictly in order and nothing is
// retried: a failed registration ends the run before the check is made.
func Run(ctx context.Context, req Request) Result {
	rep := req.Reporter
	if rep == nil {
		rep = nopReporter{}
	}
	log := req.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rep.Begin()

	// 1. register a throwaway user
	id := req.Identities.Generate()
	result := Result{Identity: id}

	rep.RegisterStarted(id)
	log.Debug("register", "email", id.Email)

	sess, err := req.Client.Register(ctx, id)
	rep.RegisterDone(sess, err)
	if err != nil {
		log.Debug("register failed", "err", err)
		result.Outcome = OutcomeRegistrationError
		result.Steps = append(result.Steps, StepStatus{
			Description: "create test user " + id.Email,
			Err:         err,
		})
		return result
	}
	result.Steps = append(result.Steps, StepStatus{
		Description: "created test user " + id.Email,
	})
	logClaims(log, *sess)

	// 2. call the integration check with the session token
	rep.CheckStarted()

	res, err := req.Client.CheckBestBuy(ctx, sess.Token)
	rep.CheckDone(res, err)
	if err != nil {
		log.Debug("check failed", "err", err)
		result.Outcome = OutcomeCheckError
		result.Steps = append(result.Steps, StepStatus{
			Description: "bestbuy connection test",
			Err:         err,
		})
		return result
	}

	log.Debug("check", "status", res.StatusCode, "success", res.Success)
	result.Check = res
	if res.Success {
		result.Outcome = OutcomePassed
		result.Steps = append(result.Steps, StepStatus{Description: "bestbuy connection test passed"})
	} else {
		result.Outcome = OutcomeFailed
		result.Steps = append(result.Steps, StepStatus{
			Description: "bestbuy connection test failed: " + res.Message,
		})
	}

	return result
}

func logClaims(log *slog.Logger, sess portal.Session) {
	c, err := sess.Claims()
	if errors.Is(err, portal.ErrOpaqueToken) {
		log.Debug("session token is opaque")
		return
	}
	log.Debug("session token", "sub", c.Subject, "exp", c.ExpiresAt)
}

type nopReporter struct{}

func (nopReporter) Begin()                               {}
func (nopReporter) RegisterStarted(identity.Identity)    {}
func (nopReporter) RegisterDone(*portal.Session, error)  {}
func (nopReporter) CheckStarted()                        {}
func (nopReporter) CheckDone(*portal.CheckResult, error) {}
