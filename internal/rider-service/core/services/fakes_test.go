package services

import (
	"context"
	"encoding/json"
	"sync"

	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"

	messagebrokerdto "rider/internal/rider-service/core/domain/message_broker_dto"
)

type memRepo struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	saves    int
	// runs inside Update after fn, with the session locked
	beforeWrite func(id string)
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[string]model.Session)}
}

func (r *memRepo) Get(_ context.Context, id string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return model.Session{}, myerrors.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *memRepo) Save(_ context.Context, s model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	r.saves++
	return nil
}

func (r *memRepo) Update(_ context.Context, id string, fn ports.UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, found := r.sessions[id]
	sess = sess.Clone()
	if err := fn(&sess, found); err != nil {
		return err
	}
	if r.beforeWrite != nil {
		r.beforeWrite(id)
	}
	r.sessions[id] = sess.Clone()
	r.saves++
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memRepo) IsAlive() error { return nil }
func (r *memRepo) Close() error   { return nil }

// fakeProxy answers from a fixed body or error and counts calls.
type fakeProxy struct {
	mu     sync.Mutex
	body   json.RawMessage
	err    error
	calls  []string
	before func(input string)
}

func (p *fakeProxy) Autocomplete(_ context.Context, input string) (json.RawMessage, error) {
	if p.before != nil {
		p.before(input)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, input)
	return p.body, p.err
}

func (p *fakeProxy) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// stubSuggestions returns a fixed list per fragment and may block.
type stubSuggestions struct {
	lists map[string]model.SuggestionList
	hook  func(fragment string)
}

func (s *stubSuggestions) FetchSuggestions(_ context.Context, fragment string) model.SuggestionList {
	if s.hook != nil {
		s.hook(fragment)
	}
	if l, ok := s.lists[fragment]; ok {
		return l
	}
	return model.SuggestionList{}
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []messagebrokerdto.RideRequested
	err  error
}

func (p *fakePublisher) PublishRideRequested(_ context.Context, msg messagebrokerdto.RideRequested) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *fakePublisher) IsAlive() bool { return true }
func (p *fakePublisher) Close() error  { return nil }
