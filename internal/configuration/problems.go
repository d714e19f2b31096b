package configuration

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Redacted is substituted for the raw value of a security-sensitive
// attribute in every diagnostic message. It must never be the literal raw
// value.
const Redacted = "[REDACTED]"

// Message is one diagnostic: an error or a warning, optionally attributed
// to a binding source (see Source, populated by the provider registry when
// it decorates ValidateAll's batch).
type Message struct {
	Source string
	Text   string
	Cause  error
}

func (m Message) String() string {
	if m.Source != "" {
		return fmt.Sprintf("[%s] %s", m.Source, m.Text)
	}
	return m.Text
}

// ConfigurationError is thrown when a Problems record has accumulated one
// or more errors at a phase boundary. It carries every error gathered so
// far, not just the first.
type ConfigurationError struct {
	Messages []Message
}

func (e *ConfigurationError) Error() string {
	texts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		texts[i] = m.String()
	}
	return strings.Join(texts, "; ")
}

// Problems is an append-only error/warning accumulator. Errors are kept in
// a *multierror.Error so batches compose with Record without losing
// individual messages; warnings never cause a throw.
type Problems struct {
	errs     *multierror.Error
	warnings []Message
}

// NewProblems returns an empty diagnostic accumulator.
func NewProblems() *Problems {
	return &Problems{}
}

// AddError formats and records an error-level diagnostic. Formatting is
// eager: the message is rendered immediately, not deferred.
func (p *Problems) AddError(format string, args ...any) {
	p.errs = multierror.Append(p.errs, fmt.Errorf(format, args...))
}

// AddWarning formats and records a warning-level diagnostic.
func (p *Problems) AddWarning(format string, args ...any) {
	p.warnings = append(p.warnings, Message{Text: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error has been recorded.
func (p *Problems) HasErrors() bool {
	return p.errs != nil && p.errs.Len() > 0
}

// Errors returns the accumulated error messages, in the order they were
// added.
func (p *Problems) Errors() []string {
	if p.errs == nil {
		return nil
	}
	out := make([]string, 0, p.errs.Len())
	for _, e := range p.errs.Errors {
		out = append(out, e.Error())
	}
	return out
}

// Warnings returns the accumulated warning messages, in the order they
// were added.
func (p *Problems) Warnings() []Message {
	return p.warnings
}

// Record merges another Problems record's errors and warnings into this
// one. Used to fold a sub-phase's diagnostics (e.g. metadata extraction)
// into a build's overall record.
func (p *Problems) Record(other *Problems) {
	if other == nil {
		return
	}
	if other.errs != nil {
		for _, e := range other.errs.Errors {
			p.errs = multierror.Append(p.errs, e)
		}
	}
	p.warnings = append(p.warnings, other.warnings...)
}

// ThrowIfHasErrors returns a *ConfigurationError carrying every
// accumulated error, or nil if none have been recorded. Warnings are never
// part of the thrown error.
func (p *Problems) ThrowIfHasErrors() error {
	if !p.HasErrors() {
		return nil
	}
	msgs := make([]Message, 0, p.errs.Len())
	for _, e := range p.errs.Errors {
		msgs = append(msgs, Message{Text: e.Error(), Cause: e})
	}
	return &ConfigurationError{Messages: msgs}
}
