package core

import (
	"fmt"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders display strings. *collate.Collator satisfies it.
type Collator interface {
	SortStrings(x []string)
}

// Handle answers queries against one Registry.
//
// The diacritic mode is fixed when the handle is created, so handles can be
// created per caller or per request without affecting one another. A Handle
// is safe for concurrent use; the last diagnostic is shared by all callers of
// the same handle.
type Handle struct {
	reg      *Registry
	mode     DiacriticConfig
	collator Collator

	mu   sync.Mutex
	last Diagnostic
}

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithDiacritics sets the rendering mode of every name the handle returns.
func WithDiacritics(cfg DiacriticConfig) HandleOption {
	return func(h *Handle) { h.mode = cfg }
}

// WithCollator replaces the Romanian collation used by CountyNames.
func WithCollator(c Collator) HandleOption {
	return func(h *Handle) { h.collator = c }
}

// NewHandle returns a query handle over reg.
func NewHandle(reg *Registry, opts ...HandleOption) *Handle {
	h := &Handle{reg: reg}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the registry the handle reads from.
func (h *Handle) Registry() *Registry { return h.reg }

// Diacritics returns the handle's rendering mode.
func (h *Handle) Diacritics() DiacriticConfig { return h.mode }

// LastDiagnostic returns the most recent query diagnostic, or the zero value
// if no query has reported one.
func (h *Handle) LastDiagnostic() Diagnostic {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// LastError returns the message of the most recent query diagnostic.
func (h *Handle) LastError() string {
	return h.LastDiagnostic().Message
}

func (h *Handle) note(d Diagnostic) {
	h.mu.Lock()
	h.last = d
	h.mu.Unlock()
}

// lookup returns the record for code, noting a diagnostic when it is absent.
func (h *Handle) lookup(code int) (Record, bool) {
	rec, ok := h.reg.Lookup(code)
	if !ok {
		h.note(Diagnostic{
			Kind:    DiagNotFound,
			Code:    code,
			Message: fmt.Sprintf("SIRUTA code %d is not in the database", code),
		})
	}
	return rec, ok
}

// render strips prefixes when asked and applies the diacritic mode.
func (h *Handle) render(name string, withPrefix bool, prefixes []string) string {
	if !withPrefix {
		name = stripPrefixes(name, prefixes)
	}
	return Normalize(name, h.mode)
}

// sortStrings orders x with the configured collator, Romanian by default.
func (h *Handle) sortStrings(x []string) {
	if h.collator != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.collator.SortStrings(x)
		return
	}
	// A collator keeps scratch buffers; one per call keeps handles shareable.
	collate.New(language.Romanian).SortStrings(x)
}
