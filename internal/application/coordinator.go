package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// ErrSuperseded возвращается загрузке, которую вытеснила более новая.
var ErrSuperseded = errors.New("upload superseded by a newer one")

// UploadCoordinator отправляет изображение на распознавание, классифицирует
// ответ и публикует успешный итог. Одновременно обрабатывается только
// последняя начатая загрузка: новая отменяет предыдущую.
type UploadCoordinator struct {
	recognizer  port.Recognizer
	distributor *ResultDistributor
	notifier    port.Notifier
	navigator   port.Navigator

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewUploadCoordinator создаёт координатор загрузок.
func NewUploadCoordinator(recognizer port.Recognizer, distributor *ResultDistributor, notifier port.Notifier, navigator port.Navigator) *UploadCoordinator {
	return &UploadCoordinator{
		recognizer:  recognizer,
		distributor: distributor,
		notifier:    notifier,
		navigator:   navigator,
	}
}

// Save загружает изображение и применяет итог: уведомления, публикацию
// и переход на страницу поиска. Вытесненная загрузка ничего не применяет
// и возвращает TransportFailure(ErrSuperseded).
func (c *UploadCoordinator) Save(ctx context.Context, image entity.Image) entity.UploadOutcome {
	ctx, gen, release := c.begin(ctx)
	defer release()

	result, err := c.recognizer.Detect(ctx, image)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return entity.TransportFailure(ErrSuperseded)
	}

	c.notifier.Remove(ctx, entity.NoticeInfo)

	var outcome entity.UploadOutcome
	switch {
	case err != nil:
		log.Printf("upload %q failed: %v", image.Name, err)
		outcome = entity.TransportFailure(err)
	case result.Empty():
		outcome = entity.EmptyDetection(image)
	default:
		outcome = entity.Success(image, *result)
	}

	if notice, ok := entity.NoticeFor(outcome); ok {
		c.notifier.Add(ctx, notice)
		return outcome
	}

	c.distributor.Publish(outcome)

	first, _ := outcome.Result.First()
	if err := c.navigator.Go(ctx, entity.VisualSearchRoute(first.ID)); err != nil {
		log.Printf("navigate to visual search for %q: %v", first.ID, err)
	}

	return outcome
}

// Cancel прерывает текущую загрузку: её итог не будет применён.
func (c *UploadCoordinator) Cancel(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.generation++
	c.notifier.Remove(ctx, entity.NoticeInfo)
}

// begin отменяет предыдущую загрузку и показывает уведомление о новой.
func (c *UploadCoordinator) begin(parent context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	c.cancel = cancel
	gen := c.generation

	c.notifier.Add(ctx, entity.UploadingNotice())

	return ctx, gen, func() {
		c.mu.Lock()
		if gen == c.generation {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}
