package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// scriptedDispatcher answers each operation from a queue of responses.
type scriptedDispatcher struct {
	mu      sync.Mutex
	answers map[string][]domain.Response
	err     error

	calls []string
	refs  []domain.RecordRef
	nodes []*domain.Node
}

func newScripted() *scriptedDispatcher {
	return &scriptedDispatcher{answers: map[string][]domain.Response{}}
}

func (s *scriptedDispatcher) on(op string, resp ...domain.Response) *scriptedDispatcher {
	s.answers[op] = append(s.answers[op], resp...)
	return s
}

func (s *scriptedDispatcher) next(op string) (domain.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, op)
	if s.err != nil {
		return domain.Response{}, s.err
	}
	q := s.answers[op]
	if len(q) == 0 {
		return domain.Response{}, errors.New("unexpected call: " + op)
	}
	s.answers[op] = q[1:]
	return q[0], nil
}

func (s *scriptedDispatcher) Get(_ context.Context, ref domain.RecordRef) (domain.Response, error) {
	s.refs = append(s.refs, ref)
	return s.next("get")
}

func (s *scriptedDispatcher) GetList(_ context.Context, refs []domain.RecordRef) (domain.Response, error) {
	s.refs = append(s.refs, refs...)
	return s.next("getList")
}

func (s *scriptedDispatcher) Initialize(_ context.Context, _ string, ref domain.RecordRef) (domain.Response, error) {
	s.refs = append(s.refs, ref)
	return s.next("initialize")
}

func (s *scriptedDispatcher) Add(_ context.Context, n *domain.Node) (domain.Response, error) {
	s.nodes = append(s.nodes, n)
	return s.next("add")
}

func (s *scriptedDispatcher) Delete(_ context.Context, ref domain.RecordRef) (domain.Response, error) {
	s.refs = append(s.refs, ref)
	return s.next("delete")
}

func (s *scriptedDispatcher) Update(_ context.Context, n *domain.Node) (domain.Response, error) {
	s.nodes = append(s.nodes, n)
	return s.next("update")
}

func (s *scriptedDispatcher) Upsert(_ context.Context, n *domain.Node) (domain.Response, error) {
	s.nodes = append(s.nodes, n)
	return s.next("upsert")
}

func (s *scriptedDispatcher) Search(_ context.Context, n *domain.Node, _ int) (domain.Response, error) {
	s.nodes = append(s.nodes, n)
	return s.next("search")
}

func (s *scriptedDispatcher) SearchMoreWithID(_ context.Context, _ string, _ int) (domain.Response, error) {
	return s.next("searchMoreWithId")
}

func baseRef(id string) domain.Response {
	return domain.Response{
		Success: true,
		Body:    domain.NewNode("baseRef").SetAttr("internalId", id).SetAttr("type", "check"),
	}
}

func checkBody(id, memo string) *domain.Node {
	return domain.NewNode("record").
		SetAttr("internalId", id).
		Append(domain.TextNode("tranBank:memo", memo))
}

type fakeBatchLoader struct {
	batch domain.Batch
	err   error
}

func (f fakeBatchLoader) LoadBatch(_ string) (domain.Batch, error) { return f.batch, f.err }
func (f fakeBatchLoader) ListBatches(_ string) ([]domain.BatchRef, error) {
	return nil, nil
}

type fakeEnvLoader struct {
	env domain.Environment
	err error
}

func (f fakeEnvLoader) LoadEnvironment(_ string) (domain.Environment, error) {
	return f.env, f.err
}

type fakeStore struct {
	runs []domain.RunResult
	err  error
}

func (s *fakeStore) SaveExchange(_ domain.Exchange) (string, error) { return "ex-1", nil }
func (s *fakeStore) SaveRun(run domain.RunResult) (string, error) {
	s.runs = append(s.runs, run)
	return "run-123", s.err
}
