// Package session runs one query at a time against the providers and feeds
// the throttled results into the result list model.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"everywhere/internal/config"
	"everywhere/internal/domain"
	"everywhere/internal/eventbus"
	"everywhere/internal/providers"
	"everywhere/internal/results"
	"everywhere/internal/throttle"
)

// Batch is a throttled batch tagged with the query generation it belongs to
type Batch struct {
	Generation int
	Batch      domain.ThrottledBatch
}

// Session owns the running query. Start and Apply must be called from the
// goroutine that owns the model.
type Session struct {
	model     *results.Model
	providers []providers.Provider
	throttle  config.ThrottleConfig
	bus       eventbus.EventBus

	generation int
	pattern    string
	cancel     context.CancelFunc
	active     map[string]bool // providers that have not ended yet
	completed  bool
}

// New creates a session; bus may be nil
func New(model *results.Model, provs []providers.Provider, throttleCfg config.ThrottleConfig, bus eventbus.EventBus) *Session {
	return &Session{
		model:     model,
		providers: provs,
		throttle:  throttleCfg,
		bus:       bus,
		completed: true,
	}
}

// Start cancels the previous query and starts pattern on every provider.
// The returned channel is closed when the query finishes or is superseded.
func (s *Session) Start(ctx context.Context, pattern string) (int, <-chan Batch) {
	s.Stop()

	s.generation++
	s.pattern = pattern
	s.model.Invalidate()
	s.model.SetPattern(pattern)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.active = make(map[string]bool, len(s.providers))
	ids := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		s.active[p.ID()] = true
		ids = append(ids, p.ID())
	}
	s.completed = false

	generation := s.generation
	s.publish(eventbus.SearchStartedEvent{Generation: generation, Pattern: pattern, Providers: ids})

	batches := make(chan Batch)
	if len(s.providers) == 0 {
		s.model.Reset()
		s.complete()
		close(batches)
		return generation, batches
	}

	events := make(chan domain.ResultEvent, 256)
	go s.runProviders(runCtx, generation, pattern, events)

	out := make(chan domain.ThrottledBatch)
	go throttle.New(s.throttle).Run(runCtx, events, out)

	go func() {
		defer close(batches)
		for b := range out {
			select {
			case batches <- Batch{Generation: generation, Batch: b}:
			case <-runCtx.Done():
				// drain so the throttler can exit
				for range out {
				}
				return
			}
		}
	}()

	return generation, batches
}

func (s *Session) runProviders(ctx context.Context, generation int, pattern string, events chan<- domain.ResultEvent) {
	defer close(events)

	emit := func(ev domain.ResultEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	var g errgroup.Group
	for _, p := range s.providers {
		p := p
		g.Go(func() error {
			err := p.Search(ctx, pattern, emit)
			emit(domain.ResultEnd{ProviderID: p.ID()})

			s.publish(eventbus.ProviderFinishedEvent{Generation: generation, ProviderID: p.ID(), Err: err})
			if err != nil && !errors.Is(err, context.Canceled) {
				s.publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("Search failed in %s", p.ID()),
					Err:     err,
				})
				return fmt.Errorf("provider %s: %w", p.ID(), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("Search %q finished with error: %v", pattern, err)
	}
}

// Apply applies b to the model and reports whether it belonged to the
// current query. Once every provider has ended the loading row is removed.
func (s *Session) Apply(b Batch) bool {
	if b.Generation != s.generation {
		return false
	}

	s.model.Apply(b.Batch)

	for _, ev := range b.Batch.Events() {
		if end, ok := ev.(domain.ResultEnd); ok {
			delete(s.active, end.ProviderID)
		}
	}
	if len(s.active) == 0 && !s.completed {
		s.complete()
	}
	return true
}

func (s *Session) complete() {
	s.completed = true
	s.model.RemoveLoadingItem()
	s.publish(eventbus.SearchCompletedEvent{
		Generation: s.generation,
		Pattern:    s.pattern,
		Results:    s.model.ItemCount(),
	})
}

// Stop cancels the running query, if any
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Generation returns the id of the current query
func (s *Session) Generation() int {
	return s.generation
}

// Progress reports the state of the current query
func (s *Session) Progress() domain.SearchProgress {
	return domain.SearchProgress{
		IsSearching:     !s.completed,
		Pattern:         s.pattern,
		ActiveProviders: len(s.active),
	}
}

func (s *Session) publish(event eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
