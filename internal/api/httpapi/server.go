package httpapi

import (
	"context"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	app "visual-search/internal/application"
	"visual-search/internal/container"
	"visual-search/internal/domain/entity"
)

const (
	sessionHeader  = "X-Session-ID"
	defaultSession = "web"
	displayPath    = "/visual/display/"
)

// Server: HTTP API визуального поиска для страниц витрины.
type Server struct {
	app *container.Container

	mu     sync.Mutex
	boards map[string]*NoticeBoard
}

func NewServer(c *container.Container) *Server {
	return &Server{
		app:    c,
		boards: make(map[string]*NoticeBoard),
	}
}

// Router собирает маршруты gin.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	visual := r.Group("/visual")
	visual.POST("/upload", s.UploadHandler)
	visual.GET("/view", s.ViewHandler)
	visual.GET("/display/:ref", s.DisplayHandler)
	visual.GET("/similar/:id", s.SimilarHandler)

	r.GET("/search/meta", s.SearchMetaHandler)

	return r
}

type routeView struct {
	Query    string `json:"query"`
	SortCode string `json:"sortCode"`
	URL      string `json:"url"`
}

type uploadResponse struct {
	Outcome entity.OutcomeKind `json:"outcome"`
	Notices []NoticeView       `json:"notices"`
	Route   *routeView         `json:"route,omitempty"`
	View    *viewResponse      `json:"view,omitempty"`
}

type viewResponse struct {
	DisplayURL  string              `json:"displayUrl"`
	Boxes       []entity.OverlayBox `json:"boxes"`
	ShowOverlay bool                `json:"showOverlay"`
}

// UploadHandler обрабатывает POST /visual/upload
func (s *Server) UploadHandler(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	key := sessionKey(c)
	board := s.board(key)
	shopper := s.app.SessionService.Attach(key, board, nil)

	// Ошибки прошлой попытки к новой загрузке не относятся
	board.Remove(c.Request.Context(), entity.NoticeError)

	image := entity.Image{Name: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}
	outcome, err := s.app.SessionService.Upload(c.Request.Context(), shopper, image)
	if err != nil {
		log.Printf("update session %s: %v", key, err)
	}

	resp := uploadResponse{Outcome: outcome.Kind, Notices: board.Current()}
	if outcome.IsSuccess() {
		resp.Route = s.route(c, key)
		resp.View = s.view(c, shopper)
	}
	c.JSON(http.StatusOK, resp)
}

// ViewHandler обрабатывает GET /visual/view
func (s *Server) ViewHandler(c *gin.Context) {
	shopper, ok := s.app.SessionService.Lookup(sessionKey(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no uploads in session"})
		return
	}
	view := s.view(c, shopper)
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no detections to show"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// DisplayHandler отдаёт картинку по живой ссылке
func (s *Server) DisplayHandler(c *gin.Context) {
	data, contentType, err := s.app.Display.Open(c.Param("ref"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}

// SimilarHandler обрабатывает GET /visual/similar/:id
func (s *Server) SimilarHandler(c *gin.Context) {
	ids := s.app.SimilarityService.Similar(c.Request.Context(), c.Param("id"))
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

// SearchMetaHandler обрабатывает GET /search/meta
func (s *Server) SearchMetaHandler(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a number"})
		return
	}

	page := entity.PageContext{
		Type:  entity.PageType(c.Query("type")),
		ID:    c.Query("id"),
		Query: c.Query("query"),
	}
	c.JSON(http.StatusOK, s.app.SearchPage.Meta(page, count, c.Query("facetQuery")))
}

func (s *Server) view(c *gin.Context, shopper *app.Shopper) *viewResponse {
	view, ok := shopper.Results.LatestView()
	if !ok {
		return nil
	}

	showOverlay := false
	if session, err := s.app.SessionService.Get(c.Request.Context(), shopper.Key); err == nil && session.Route != nil {
		showOverlay = entity.IsVisualQuery(session.Route.Query)
	}

	return &viewResponse{
		DisplayURL:  displayPath + view.DisplayRef,
		Boxes:       view.Boxes,
		ShowOverlay: showOverlay,
	}
}

func (s *Server) route(c *gin.Context, key string) *routeView {
	session, err := s.app.SessionService.Get(c.Request.Context(), key)
	if err != nil || session.Route == nil {
		return nil
	}
	return &routeView{
		Query:    session.Route.Query,
		SortCode: session.Route.SortCode,
		URL:      session.Route.URL(""),
	}
}

func (s *Server) board(key string) *NoticeBoard {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[key]
	if !ok {
		b = NewNoticeBoard()
		s.boards[key] = b
	}
	return b
}

// Sweep закрывает сессии, простаивающие дольше idle, вместе с их уведомлениями.
func (s *Server) Sweep(ctx context.Context, idle time.Duration) int {
	keys := s.app.SessionService.EvictIdle(ctx, idle)

	s.mu.Lock()
	for _, key := range keys {
		delete(s.boards, key)
	}
	s.mu.Unlock()

	return len(keys)
}

// StartSessionSweeper запускает фоновую очистку простаивающих сессий.
func (s *Server) StartSessionSweeper(ctx context.Context, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(idle / 2)
		defer ticker.Stop()

		log.Printf("Session sweeper started, idle timeout: %s", idle)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(ctx, idle); n > 0 {
					log.Printf("Evicted %d idle sessions", n)
				}
			}
		}
	}()
}

func sessionKey(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(sessionHeader))
	if id == "" {
		id = defaultSession
	}
	return "web:" + id
}
