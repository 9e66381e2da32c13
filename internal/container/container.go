package container

import (
	app "visual-search/internal/application"
	"visual-search/internal/domain/port"
	"visual-search/internal/infrastructure/storage"
)

type Container struct {
	SessionService    *app.SessionService
	SimilarityService *app.SimilarityService
	SearchPage        *app.SearchPage
	Display           *storage.MemoryDisplayStore
	Previewer         port.Previewer
}

func New(sessionRepo port.SessionRepository, recognizer port.Recognizer, cache port.SimilarityCache, previewer port.Previewer) *Container {
	display := storage.NewMemoryDisplayStore()

	return &Container{
		SessionService:    app.NewSessionService(sessionRepo, recognizer, display),
		SimilarityService: app.NewSimilarityService(recognizer, cache),
		SearchPage:        app.NewSearchPage(app.VisualQueryClassifier{}),
		Display:           display,
		Previewer:         previewer,
	}
}

// Close освобождает ресурсы сессий.
func (c *Container) Close() {
	c.SessionService.Close()
}
