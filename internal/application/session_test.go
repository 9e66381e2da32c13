package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"visual-search/internal/domain/entity"
	"visual-search/internal/infrastructure/storage"
)

func newSessionService(r *fakeRecognizer) *SessionService {
	return NewSessionService(storage.NewMemorySessionRepository(), r, storage.NewMemoryDisplayStore())
}

func TestSessionService_BeginSearchAndCancel(t *testing.T) {
	svc := newSessionService(returning())
	ctx := context.Background()

	s, err := svc.BeginSearch(ctx, "tg:1")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, s.State)

	ok, err := svc.AcceptsPhotos(ctx, "tg:1")
	require.NoError(t, err)
	require.True(t, ok)

	s, err = svc.Cancel(ctx, "tg:1")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, s.State)

	ok, err = svc.AcceptsPhotos(ctx, "tg:1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionService_AttachReturnsSameShopper(t *testing.T) {
	svc := newSessionService(returning())

	first := svc.Attach("web:a", &recordingNotifier{}, nil)
	second := svc.Attach("web:a", &recordingNotifier{}, nil)
	require.Same(t, first, second)

	other := svc.Attach("web:b", &recordingNotifier{}, nil)
	require.NotSame(t, first, other)

	found, ok := svc.Lookup("web:a")
	require.True(t, ok)
	require.Same(t, first, found)
	_, ok = svc.Lookup("web:c")
	require.False(t, ok)
}

func TestSessionService_UploadRecordsRoute(t *testing.T) {
	svc := newSessionService(returning(entity.DetectionItem{ID: "P1"}))
	nav := &recordingNavigator{}
	ctx := context.Background()

	sh := svc.Attach("tg:7", &recordingNotifier{}, nav)
	outcome, err := svc.Upload(ctx, sh, photo)
	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())

	s, err := svc.Get(ctx, "tg:7")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, s.State)
	require.NotNil(t, s.Route)
	require.Equal(t, "visual-P1", s.Route.Query)
	require.Len(t, nav.Routes(), 1)
}

func TestSessionService_EmptyUploadKeepsRoute(t *testing.T) {
	svc := newSessionService(returning())
	ctx := context.Background()

	sh := svc.Attach("web:x", &recordingNotifier{}, nil)
	outcome, err := svc.Upload(ctx, sh, photo)
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeEmptyDetection, outcome.Kind)

	s, _ := svc.Get(ctx, "web:x")
	require.Nil(t, s.Route)
}

func TestSessionService_ConcurrentUploadAndGet(t *testing.T) {
	r := &fakeRecognizer{}
	r.detect = func(_ context.Context, image entity.Image) (*entity.DetectionResult, error) {
		return &entity.DetectionResult{Items: []entity.DetectionItem{{ID: image.Name}}}, nil
	}
	svc := newSessionService(r)
	ctx := context.Background()
	sh := svc.Attach("web:a", &recordingNotifier{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.Upload(ctx, sh, entity.Image{Name: fmt.Sprintf("P%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			s, err := svc.Get(ctx, "web:a")
			if err != nil {
				return
			}
			_ = s.State
			if s.Route != nil {
				_ = s.Route.Query
			}
		}()
	}
	wg.Wait()

	s, err := svc.Get(ctx, "web:a")
	require.NoError(t, err)
	require.NotNil(t, s.Route)
	require.True(t, entity.IsVisualQuery(s.Route.Query))
}

func TestSessionService_CancelStopsUploadAndKeepsMainMenu(t *testing.T) {
	started := make(chan struct{})
	r := &fakeRecognizer{}
	r.detect = func(ctx context.Context, _ entity.Image) (*entity.DetectionResult, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	svc := newSessionService(r)
	ctx := context.Background()
	sh := svc.Attach("tg:3", &recordingNotifier{}, nil)

	done := make(chan entity.UploadOutcome, 1)
	go func() {
		outcome, _ := svc.Upload(ctx, sh, photo)
		done <- outcome
	}()
	<-started

	_, err := svc.Cancel(ctx, "tg:3")
	require.NoError(t, err)

	outcome := <-done
	require.ErrorIs(t, outcome.Cause, ErrSuperseded)

	s, err := svc.Get(ctx, "tg:3")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, s.State)
}

func TestSessionService_EvictIdle(t *testing.T) {
	svc := newSessionService(returning(entity.DetectionItem{ID: "P1"}))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	idle := svc.Attach("web:idle", &recordingNotifier{}, nil)
	_, err := svc.Upload(ctx, idle, photo)
	require.NoError(t, err)
	view, ok := idle.Results.LatestView()
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	svc.Attach("web:fresh", &recordingNotifier{}, nil)

	now = now.Add(15 * time.Minute)
	require.Equal(t, []string{"web:idle"}, svc.EvictIdle(ctx, 30*time.Minute))

	_, ok = svc.Lookup("web:idle")
	require.False(t, ok)
	_, ok = svc.Lookup("web:fresh")
	require.True(t, ok)

	_, _, err = svc.display.(*storage.MemoryDisplayStore).Open(view.DisplayRef)
	require.ErrorIs(t, err, storage.ErrReferenceRevoked)

	s, err := svc.Get(ctx, "web:idle")
	require.NoError(t, err)
	require.Nil(t, s.Route)
}

func TestSessionService_EvictIdleSkipsActiveUpload(t *testing.T) {
	started := make(chan struct{})
	finish := make(chan struct{})
	r := &fakeRecognizer{}
	r.detect = func(context.Context, entity.Image) (*entity.DetectionResult, error) {
		close(started)
		<-finish
		return &entity.DetectionResult{Items: []entity.DetectionItem{{ID: "P1"}}}, nil
	}
	svc := newSessionService(r)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	ctx := context.Background()
	sh := svc.Attach("web:busy", &recordingNotifier{}, nil)

	done := make(chan struct{})
	go func() {
		_, _ = svc.Upload(ctx, sh, photo)
		close(done)
	}()
	<-started

	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()
	require.Empty(t, svc.EvictIdle(ctx, time.Minute))

	close(finish)
	<-done
	_, ok := svc.Lookup("web:busy")
	require.True(t, ok)
}

func TestSessionService_Close(t *testing.T) {
	svc := newSessionService(returning(entity.DetectionItem{ID: "P1"}))
	sh := svc.Attach("web:a", &recordingNotifier{}, nil)
	views, _ := sh.Results.SubscribeView()

	svc.Close()
	_, open := <-views
	require.False(t, open)
	_, ok := svc.Lookup("web:a")
	require.False(t, ok)
}
