package gojson

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rnats/gojson/internal/fields"
	"github.com/rnats/gojson/internal/jsonopts"
	"github.com/rnats/gojson/log"
)

// formatterPair is the materialized serializer/deserializer pair that a
// (type, width, policy) key maps to. It is allocated once per key and
// filled in place, so a cyclic type graph can hand out a reference to
// its own not-yet-finished pair while still resolving: cycles are
// broken by pre-registering an empty placeholder entry before
// recursing into member/element types.
type formatterPair struct {
	// marshal/unmarshal hold a func(*jsontext.Writer[S], reflect.Value)
	// error / func(*jsontext.Reader[S], reflect.Value) error, boxed as
	// any so one formatterPair can serve whichever lane (S=uint8 or
	// S=uint16) the owning cache key was built for; marshalFuncFor /
	// unmarshalFuncFor in composite.go do the type assertion back.
	marshal   any
	unmarshal any

	desc *fields.Desc // non-nil for composite (struct) types

	// err poisons the entry: a formatter that failed to generate stays
	// cached with its error so repeated requests fail fast instead of
	// re-running generation.
	err error

	ready chan struct{} // closed once the closures above are safe to call
}

func newFormatterPair() *formatterPair {
	return &formatterPair{ready: make(chan struct{})}
}

func (p *formatterPair) markReady() { close(p.ready) }

// waitReady blocks until p's closures are installed. Only resolve calls
// it, and the composite formatters resolve member and element types when
// they run, not while they are being built, so a goroutine never waits
// on a pair it is itself building.
func (p *formatterPair) waitReady() { <-p.ready }

type formatterKey struct {
	typ    reflect.Type
	width  int
	policy jsonopts.Struct
}

// Resolver is the process-wide formatter cache: a concurrent,
// idempotent-insert cache keyed by (type identity, symbol width,
// policy), with a singleflight.Group collapsing concurrent builds of
// the same key into one.
type Resolver struct {
	policy jsonopts.Struct
	logger log.Logger

	marshalers   *Marshalers
	unmarshalers *Unmarshalers

	cache sync.Map // formatterKey -> *formatterPair
	group singleflight.Group
}

// NewResolver builds a Resolver from the given options. The default
// resolver (used by the package-level Marshal/Unmarshal) is
// constructed the same way with zero options.
func NewResolver(opts ...Option) *Resolver {
	return &Resolver{policy: buildPolicy(opts), logger: log.Discard}
}

// WithLogger attaches a Logger for formatter-generation and
// cache-poisoning diagnostics; the zero value logs nothing.
func (r *Resolver) WithLogger(l log.Logger) *Resolver {
	r.logger = l
	return r
}

// WithMarshalers installs per-type marshal overrides, consulted ahead
// of the resolver-generated formatter. Must be called before the
// resolver's first Marshal; cached formatters do not pick up overrides
// installed later.
func (r *Resolver) WithMarshalers(m *Marshalers) *Resolver {
	r.marshalers = m
	return r
}

// WithUnmarshalers installs per-type unmarshal overrides, with the
// same before-first-use requirement as WithMarshalers.
func (r *Resolver) WithUnmarshalers(u *Unmarshalers) *Resolver {
	r.unmarshalers = u
	return r
}

var defaultResolver = NewResolver()

func (r *Resolver) keyFor(t reflect.Type, width int) formatterKey {
	return formatterKey{typ: t, width: width, policy: r.policy}
}

// resolve returns the formatter pair for t at the given symbol width,
// building and caching it if this is the first request for that key.
func (r *Resolver) resolve(t reflect.Type, width int) (*formatterPair, error) {
	key := r.keyFor(t, width)
	if v, ok := r.cache.Load(key); ok {
		p := v.(*formatterPair)
		p.waitReady()
		return p, p.err
	}

	groupKey := fmt.Sprintf("%s.%s|%d|%+v", t.PkgPath(), t.String(), width, r.policy)
	v, err, _ := r.group.Do(groupKey, func() (any, error) {
		p := newFormatterPair()
		actual, loaded := r.cache.LoadOrStore(key, p)
		p = actual.(*formatterPair)
		if loaded {
			p.waitReady()
			return p, p.err
		}
		r.logger.Debugf("building formatter for %s (width=%d)", t, width)
		if err := buildFormatter(r, t, width, p); err != nil {
			// Poison the entry: the error is cached alongside the slot
			// so later requests fail fast without re-running generation.
			p.err = err
			p.markReady()
			r.logger.Errorf("failed building formatter for %s: %v", t, err)
			return nil, err
		}
		p.markReady()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*formatterPair), nil
}
