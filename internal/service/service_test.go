package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/implementation"
	"moodflix-be/internal/repository/specification"
	"moodflix-be/pkg/ambient"
	"moodflix-be/pkg/candidate"
	"moodflix-be/pkg/events"
)

var nopLog = logger.NewNopLogger()

func ptr[T any](v T) *T { return &v }

type fakeLocator struct {
	loc   ambient.Location
	err   error
	calls int
}

func (f *fakeLocator) Locate(_ context.Context, _ string) (ambient.Location, error) {
	f.calls++
	return f.loc, f.err
}

type fakeWeather struct {
	w   ambient.Weather
	err error
	got ambient.Location
}

func (f *fakeWeather) Current(_ context.Context, loc ambient.Location) (ambient.Weather, error) {
	f.got = loc
	return f.w, f.err
}

type fakeProducer struct {
	mu     sync.Mutex
	titles []string
	err    error
	last   candidate.Request
}

func (f *fakeProducer) Produce(_ context.Context, req candidate.Request) candidate.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	return candidate.Result{Candidates: f.titles, Err: f.err}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type failingRepo struct{}

func (failingRepo) Append(context.Context, *entity.Selection) error { return errors.New("disk full") }
func (failingRepo) FindRecent(context.Context, int, ...specification.Specification) ([]*entity.Selection, error) {
	return nil, contract.ErrMalformedLog
}
func (failingRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, contract.ErrMalformedLog
}

func csvRepo(t *testing.T) contract.SelectionRepository {
	t.Helper()
	return implementation.NewSelectionCSVRepository(filepath.Join(t.TempDir(), "user_logs.csv"))
}

func fixedClock(s IContextService, at time.Time) IContextService {
	s.(*contextService).now = func() time.Time { return at }
	return s
}
