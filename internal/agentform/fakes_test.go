package agentform

import (
	"context"
	"sync"

	"agentconsole/internal/model"
)

type updateCall struct {
	id      string
	payload map[string]interface{}
}

type fakeService struct {
	mu          sync.Mutex
	result      *model.CreateAgentResult
	err         error
	updateErr   error
	block       chan struct{}
	started     chan struct{}
	createCalls []*model.AgentPayload
	updateCalls []updateCall
}

func (s *fakeService) CreateAgent(ctx context.Context, payload *model.AgentPayload) (*model.CreateAgentResult, error) {
	s.mu.Lock()
	s.createCalls = append(s.createCalls, payload)
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func (s *fakeService) UpdateAgent(ctx context.Context, id string, payload map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls = append(s.updateCalls, updateCall{id: id, payload: payload})
	return s.updateErr
}

func (s *fakeService) creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.createCalls)
}

func (s *fakeService) updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updateCalls)
}

type fakeReader struct {
	agent *model.Agent
	err   error
}

func (r *fakeReader) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	return r.agent, r.err
}

type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNavigator) NavigateTo(ctx context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *fakeNotifier) NotifySuccess(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) NotifyFailure(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

type harness struct {
	service   *fakeService
	navigator *fakeNavigator
	notifier  *fakeNotifier
}

func newHarness() *harness {
	return &harness{
		service:   &fakeService{},
		navigator: &fakeNavigator{},
		notifier:  &fakeNotifier{},
	}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Service:   h.service,
		Navigator: h.navigator,
		Notifier:  h.notifier,
	}
}
