package entity

// SessionState состояние покупателя в диалоге
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingPhoto SessionState = "awaiting_photo" // Ожидание фото одежды
	StateUploading     SessionState = "uploading"      // Идёт загрузка и распознавание
)

// Session представляет сессию покупателя (чат Telegram или HTTP-клиент)
type Session struct {
	Key   string       // ключ сессии, например "tg:42" или "web:abc"
	State SessionState // Текущее состояние
	Route *Route       // Последний переход, выполненный для сессии
}

// NewSession создаёт новую сессию с начальным состоянием
func NewSession(key string) *Session {
	return &Session{
		Key:   key,
		State: StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Clone возвращает независимую копию сессии
func (s *Session) Clone() *Session {
	cp := *s
	if s.Route != nil {
		route := *s.Route
		cp.Route = &route
	}
	return &cp
}
