package app

import (
	"context"
	"errors"
	"sync"

	"visual-search/internal/domain/entity"
)

type fakeRecognizer struct {
	detect  func(ctx context.Context, image entity.Image) (*entity.DetectionResult, error)
	similar func(ctx context.Context, itemID string) ([]string, error)

	mu           sync.Mutex
	similarCalls int
}

func (f *fakeRecognizer) Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error) {
	return f.detect(ctx, image)
}

func (f *fakeRecognizer) Similar(ctx context.Context, itemID string) ([]string, error) {
	f.mu.Lock()
	f.similarCalls++
	f.mu.Unlock()
	if f.similar == nil {
		return nil, errors.New("not configured")
	}
	return f.similar(ctx, itemID)
}

func returning(items ...entity.DetectionItem) *fakeRecognizer {
	return &fakeRecognizer{detect: func(context.Context, entity.Image) (*entity.DetectionResult, error) {
		return &entity.DetectionResult{Items: items}, nil
	}}
}

func failing(err error) *fakeRecognizer {
	return &fakeRecognizer{detect: func(context.Context, entity.Image) (*entity.DetectionResult, error) {
		return nil, err
	}}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Add(_ context.Context, notice entity.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "add:"+string(notice.Type)+":"+string(notice.Key))
}

func (n *recordingNotifier) Remove(_ context.Context, t entity.NoticeType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "remove:"+string(t))
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []entity.Route
	err    error
}

func (n *recordingNavigator) Go(_ context.Context, route entity.Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return n.err
}

func (n *recordingNavigator) Routes() []entity.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Route(nil), n.routes...)
}
