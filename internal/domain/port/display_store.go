package port

// DisplayStore выдаёт отзываемые ссылки на байты изображения для показа
type DisplayStore interface {
	// Mint создаёт новую ссылку на данные
	Mint(data []byte, contentType string) string

	// Revoke отзывает ссылку. Повторный вызов ничего не делает
	Revoke(ref string)
}
