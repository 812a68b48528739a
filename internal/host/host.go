// Package host attaches a simulation session to a named display surface
// and drives its frame loop there.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/chatooly/internal/logging"
	"github.com/san-kum/chatooly/internal/sim"
)

// ErrNoContainer is returned when no surface is registered under a name.
var ErrNoContainer = errors.New("host: no container")

// Surface runs the frame loop of a session and forwards its pointer and
// viewport events until ctx is done or the user closes it.
type Surface interface {
	Name() string
	Run(ctx context.Context, s *sim.Session) error
}

type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
	log      *log.Logger
}

func NewRegistry(logger *log.Logger, surfaces ...Surface) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	r := &Registry{surfaces: make(map[string]Surface), log: logger}
	for _, s := range surfaces {
		r.Register(s)
	}
	return r
}

// Register adds s, replacing any surface of the same name.
func (r *Registry) Register(s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[s.Name()] = s
}

func (r *Registry) Lookup(name string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[name]
	return s, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.surfaces))
	for n := range r.surfaces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Attach runs s on the surface called name. A missing surface is logged and
// reported as ErrNoContainer; the session is left untouched.
func Attach(ctx context.Context, r *Registry, name string, s *sim.Session) error {
	surface, ok := r.Lookup(name)
	if !ok {
		r.log.Error("surface not found", "name", name, "available", r.Names())
		return fmt.Errorf("%w: %q", ErrNoContainer, name)
	}
	r.log.Debug("attaching session", "surface", name, "frame", s.Frame())
	return surface.Run(ctx, s)
}
