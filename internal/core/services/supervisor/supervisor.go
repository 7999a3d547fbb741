// Package supervisor owns the lifecycle of the long-running components:
// the network scanner, the aux monitors and anything else registered with
// it. Components are started and stopped by name, and Reconcile brings
// the running set in line with the configuration after a settings change.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const (
	// componentStopTimeout bounds the wait for a single component to
	// acknowledge its cancelled context.
	componentStopTimeout = 1 * time.Second
	// shutdownTimeout bounds the whole Shutdown join.
	shutdownTimeout = 5 * time.Second
)

// RunFunc is a component body. It must return promptly once ctx is
// cancelled; the supervisor only waits componentStopTimeout for it.
type RunFunc func(ctx context.Context)

// Component describes one supervised loop.
type Component struct {
	Name string
	Run  RunFunc
	// Enabled decides whether the component should run under a given
	// configuration. Nil means always enabled.
	Enabled func(cfg *config.Config) bool
	// RestartOn reports whether a configuration change requires a
	// restart even though the component stays enabled. Nil means never.
	RestartOn func(old, new *config.Config) bool
}

type running struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Supervisor starts registered components as goroutines and stops them by
// cancelling their contexts. All exported methods are safe for concurrent
// use.
type Supervisor struct {
	log zerolog.Logger

	mu         sync.Mutex
	root       context.Context
	components []Component
	active     map[string]*running
	lastCfg    *config.Config
}

// New creates a supervisor whose components all descend from root; when
// root is cancelled every component sees it.
func New(root context.Context) *Supervisor {
	return &Supervisor{
		log:    logging.WithComponent("supervisor"),
		root:   root,
		active: make(map[string]*running),
	}
}

// Register adds a component. Registration does not start it; call Start
// or Reconcile.
func (s *Supervisor) Register(c Component) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = append(s.components, c)
}

// Start launches the named component. Starting a component that is
// already running is a no-op.
func (s *Supervisor) Start(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(name)
}

func (s *Supervisor) startLocked(name string) {
	if _, ok := s.active[name]; ok {
		return
	}
	comp, ok := s.lookup(name)
	if !ok {
		s.log.Error().Str("component", name).Msg("start of unregistered component ignored")
		return
	}

	ctx, cancel := context.WithCancel(s.root)
	r := &running{cancel: cancel, done: make(chan struct{})}
	s.active[name] = r

	s.log.Info().Str("component", name).Msg("starting")
	go func() {
		defer close(r.done)
		comp.Run(ctx)
	}()
}

// Stop cancels the named component and waits briefly for it to exit.
// Stopping a component that is not running is a no-op.
func (s *Supervisor) Stop(name string) {
	s.mu.Lock()
	r, ok := s.active[name]
	if ok {
		delete(s.active, name)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.stopAndJoin(name, r, componentStopTimeout)
}

func (s *Supervisor) stopAndJoin(name string, r *running, timeout time.Duration) {
	r.cancel()
	select {
	case <-r.done:
		s.log.Info().Str("component", name).Msg("stopped")
	case <-time.After(timeout):
		s.log.Warn().Str("component", name).Msg("component did not stop in time, abandoning")
	}
}

// Reconcile starts enabled-but-inactive components, stops
// active-but-disabled ones, and restarts components whose RestartOn hook
// fires for this configuration change. Calling it twice with the same
// configuration changes nothing.
func (s *Supervisor) Reconcile(cfg *config.Config) {
	s.mu.Lock()
	old := s.lastCfg
	s.lastCfg = cfg

	var toStop []string
	var toStart []string
	for _, c := range s.components {
		enabled := c.Enabled == nil || c.Enabled(cfg)
		_, isActive := s.active[c.Name]

		switch {
		case enabled && !isActive:
			toStart = append(toStart, c.Name)
		case !enabled && isActive:
			toStop = append(toStop, c.Name)
		case enabled && isActive && old != nil && c.RestartOn != nil && c.RestartOn(old, cfg):
			toStop = append(toStop, c.Name)
			toStart = append(toStart, c.Name)
		}
	}

	stopping := make(map[string]*running, len(toStop))
	for _, name := range toStop {
		stopping[name] = s.active[name]
		delete(s.active, name)
	}
	s.mu.Unlock()

	for _, name := range toStop {
		s.stopAndJoin(name, stopping[name], componentStopTimeout)
	}

	s.mu.Lock()
	for _, name := range toStart {
		s.startLocked(name)
	}
	s.mu.Unlock()
}

// Shutdown stops everything, joining all components within a global
// deadline.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	stopping := s.active
	s.active = make(map[string]*running)
	s.mu.Unlock()

	for _, r := range stopping {
		r.cancel()
	}

	deadline := time.After(shutdownTimeout)
	for name, r := range stopping {
		select {
		case <-r.done:
			s.log.Info().Str("component", name).Msg("stopped")
		case <-deadline:
			s.log.Warn().Str("component", name).Msg("shutdown deadline reached, abandoning")
			return
		}
	}
}

// Running reports the activity of every registered component, for the
// status endpoint.
func (s *Supervisor) Running() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.components))
	for _, c := range s.components {
		_, ok := s.active[c.Name]
		out[c.Name] = ok
	}
	return out
}

func (s *Supervisor) lookup(name string) (Component, bool) {
	for _, c := range s.components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}
