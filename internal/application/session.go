package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// Shopper: координатор загрузок и распределитель итогов одной сессии.
type Shopper struct {
	Key         string
	Coordinator *UploadCoordinator
	Results     *ResultDistributor

	// защищены SessionService.mu
	lastUsed time.Time
	active   int
}

type SessionService struct {
	repo       port.SessionRepository
	recognizer port.Recognizer
	display    port.DisplayStore
	now        func() time.Time

	mu       sync.Mutex
	shoppers map[string]*Shopper
}

func NewSessionService(repo port.SessionRepository, recognizer port.Recognizer, display port.DisplayStore) *SessionService {
	return &SessionService{
		repo:       repo,
		recognizer: recognizer,
		display:    display,
		now:        time.Now,
		shoppers:   make(map[string]*Shopper),
	}
}

// Get возвращает снимок сессии.
func (s *SessionService) Get(ctx context.Context, key string) (*entity.Session, error) {
	return s.repo.Get(ctx, key)
}

func (s *SessionService) SetState(ctx context.Context, key string, state entity.SessionState) (*entity.Session, error) {
	if err := s.repo.UpdateState(ctx, key, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

func (s *SessionService) BeginSearch(ctx context.Context, key string) (*entity.Session, error) {
	return s.SetState(ctx, key, entity.StateAwaitingPhoto)
}

// Cancel возвращает сессию в главное меню и прерывает идущую загрузку.
func (s *SessionService) Cancel(ctx context.Context, key string) (*entity.Session, error) {
	if sh, ok := s.Lookup(key); ok {
		sh.Coordinator.Cancel(ctx)
	}
	return s.SetState(ctx, key, entity.StateMainMenu)
}

// AcceptsPhotos сообщает, ждёт ли сессия фото: после /search или во время
// загрузки, которую новое фото вытеснит.
func (s *SessionService) AcceptsPhotos(ctx context.Context, key string) (bool, error) {
	session, err := s.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return session.State == entity.StateAwaitingPhoto || session.State == entity.StateUploading, nil
}

// Attach возвращает Shopper сессии, создавая его при первом обращении.
// notifier и navigator используются только при создании.
func (s *SessionService) Attach(key string, notifier port.Notifier, navigator port.Navigator) *Shopper {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh, ok := s.shoppers[key]; ok {
		sh.lastUsed = s.now()
		return sh
	}

	results := NewResultDistributor(s.display)
	sh := &Shopper{
		Key:         key,
		Results:     results,
		Coordinator: NewUploadCoordinator(s.recognizer, results, notifier, &routeRecorder{key: key, repo: s.repo, next: navigator}),
		lastUsed:    s.now(),
	}
	s.shoppers[key] = sh
	return sh
}

// Lookup возвращает уже созданный Shopper.
func (s *SessionService) Lookup(key string) (*Shopper, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shoppers[key]
	if ok {
		sh.lastUsed = s.now()
	}
	return sh, ok
}

// Upload переводит сессию в состояние загрузки, запускает её и по
// завершении снова ждёт фото. Вытесненная или отменённая загрузка
// состояние не трогает: оно принадлежит более новой операции.
func (s *SessionService) Upload(ctx context.Context, sh *Shopper, image entity.Image) (entity.UploadOutcome, error) {
	s.hold(sh)
	defer s.release(sh)

	if _, err := s.SetState(ctx, sh.Key, entity.StateUploading); err != nil {
		return entity.UploadOutcome{}, err
	}

	outcome := sh.Coordinator.Save(ctx, image)
	if errors.Is(outcome.Cause, ErrSuperseded) {
		return outcome, nil
	}

	if _, err := s.SetState(ctx, sh.Key, entity.StateAwaitingPhoto); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// EvictIdle закрывает сессии без загрузок, к которым не обращались дольше idle,
// и возвращает их ключи.
func (s *SessionService) EvictIdle(ctx context.Context, idle time.Duration) []string {
	s.mu.Lock()
	var evicted []*Shopper
	deadline := s.now().Add(-idle)
	for key, sh := range s.shoppers {
		if sh.active == 0 && sh.lastUsed.Before(deadline) {
			evicted = append(evicted, sh)
			delete(s.shoppers, key)
		}
	}
	s.mu.Unlock()

	keys := make([]string, 0, len(evicted))
	for _, sh := range evicted {
		sh.Results.Close()
		_ = s.repo.Delete(ctx, sh.Key)
		keys = append(keys, sh.Key)
	}
	return keys
}

// Close освобождает ресурсы всех сессий.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sh := range s.shoppers {
		sh.Results.Close()
		delete(s.shoppers, key)
	}
}

func (s *SessionService) hold(sh *Shopper) {
	s.mu.Lock()
	sh.active++
	sh.lastUsed = s.now()
	s.mu.Unlock()
}

func (s *SessionService) release(sh *Shopper) {
	s.mu.Lock()
	sh.active--
	sh.lastUsed = s.now()
	s.mu.Unlock()
}

// routeRecorder запоминает последний переход в сессии и передаёт его дальше.
type routeRecorder struct {
	key  string
	repo port.SessionRepository
	next port.Navigator
}

func (r *routeRecorder) Go(ctx context.Context, route entity.Route) error {
	if err := r.repo.UpdateRoute(ctx, r.key, route); err != nil {
		return err
	}
	if r.next == nil {
		return nil
	}
	return r.next.Go(ctx, route)
}
