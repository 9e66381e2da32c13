package app

import (
	"sync"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// ResultDistributor хранит последний итог загрузки и раздаёт его подписчикам.
// Новый подписчик сразу получает текущее значение, если оно есть.
// Каждый канал подписчика держит только самое свежее значение.
type ResultDistributor struct {
	store port.DisplayStore

	mu         sync.Mutex
	outcome    entity.UploadOutcome
	hasOutcome bool
	view       entity.ImageView
	hasView    bool
	outcomes   subscribers[entity.UploadOutcome]
	views      subscribers[entity.ImageView]
	closed     bool
}

// NewResultDistributor создаёт распределитель. store выдаёт ссылки для показа картинки.
func NewResultDistributor(store port.DisplayStore) *ResultDistributor {
	return &ResultDistributor{store: store}
}

// Publish заменяет текущий итог. Для успешного итога выпускается новая
// ссылка на картинку, а предыдущая отзывается.
func (d *ResultDistributor) Publish(o entity.UploadOutcome) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.outcome, d.hasOutcome = o, true
	d.outcomes.deliver(o)

	if !o.IsSuccess() {
		return
	}

	ref := d.store.Mint(o.Image.Data, o.Image.ContentType)
	view, _ := entity.ProjectView(o, ref)
	if d.hasView {
		d.store.Revoke(d.view.DisplayRef)
	}
	d.view, d.hasView = view, true
	d.views.deliver(view)
}

// Latest возвращает текущий итог.
func (d *ResultDistributor) Latest() (entity.UploadOutcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome, d.hasOutcome
}

// LatestView возвращает представление последнего успешного итога.
func (d *ResultDistributor) LatestView() (entity.ImageView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view, d.hasView
}

// Subscribe подписывает на итоги. cancel закрывает канал.
func (d *ResultDistributor) Subscribe() (<-chan entity.UploadOutcome, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return subscribe(d, &d.outcomes, d.outcome, d.hasOutcome)
}

// SubscribeView подписывает на представления успешных итогов.
// Пустые детекции и ошибки сюда не попадают.
func (d *ResultDistributor) SubscribeView() (<-chan entity.ImageView, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return subscribe(d, &d.views, d.view, d.hasView)
}

// Close отзывает живую ссылку и закрывает все каналы подписчиков.
func (d *ResultDistributor) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	if d.hasView {
		d.store.Revoke(d.view.DisplayRef)
	}
	d.outcomes.closeAll()
	d.views.closeAll()
}

// subscribe вызывается под d.mu.
func subscribe[T any](d *ResultDistributor, subs *subscribers[T], current T, has bool) (<-chan T, func()) {
	ch := make(chan T, 1)
	if d.closed {
		close(ch)
		return ch, func() {}
	}
	if has {
		ch <- current
	}
	id := subs.add(ch)
	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		subs.remove(id)
	}
}

type subscribers[T any] struct {
	next  int
	chans map[int]chan T
}

func (s *subscribers[T]) add(ch chan T) int {
	if s.chans == nil {
		s.chans = make(map[int]chan T)
	}
	s.next++
	s.chans[s.next] = ch
	return s.next
}

func (s *subscribers[T]) remove(id int) {
	if ch, ok := s.chans[id]; ok {
		delete(s.chans, id)
		close(ch)
	}
}

// deliver заменяет непрочитанное значение новым, не блокируясь.
func (s *subscribers[T]) deliver(v T) {
	for _, ch := range s.chans {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

func (s *subscribers[T]) closeAll() {
	for id := range s.chans {
		s.remove(id)
	}
}
