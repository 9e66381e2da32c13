package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "visual-search/internal/application"
	"visual-search/internal/container"
	"visual-search/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогу найти в магазине одежду, похожую на ту, что у вас на фото.

📸 Наберите /search и отправьте фотографию, я найду на ней предметы одежды и пришлю ссылку на подборку.

📋 Команды:
/search — начать поиск по фото
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Наберите /search и отправьте фото или картинку файлом
2️⃣ Бот отметит найденные предметы рамками
3️⃣ Откройте ссылку на подборку или нажмите кнопку предмета, чтобы увидеть похожие товары

📋 Команды:
/search — начать поиск
/cancel — отменить операцию`

	msgAwaitingPhoto  = "📸 Отправьте фото одежды для поиска."
	msgCancelled      = "❌ Операция отменена. Отправьте /search для нового поиска."
	msgSendPhoto      = "📸 Пожалуйста, отправьте фото одежды."
	msgSearchFirst    = "🔍 Чтобы начать поиск по фото, отправьте /search."
	msgStaleItem      = "⌛ Это фото уже заменено новым. Нажмите кнопку под последним превью."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgDownloadError  = "⚠️ Не удалось получить фото из Telegram. Попробуйте ещё раз."
	msgFound          = "👕 Найденные предметы. Нажмите на предмет, чтобы увидеть похожие товары."
	msgNoSimilar      = "🤷 Похожих товаров не нашлось."
	msgSimilar        = "🛍 Похожие товары:"
	msgOpenResults    = "Открыть подборку"
	msgResultsReady   = "✅ Подборка готова."

	callbackSimilar = "similar:"
)

// botAPI: часть tgbotapi.BotAPI, которой пользуется бот.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота визуального поиска
type Bot struct {
	bot        *tgbotapi.BotAPI
	api        botAPI
	app        *container.Container
	storefront string
	httpClient *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, storefrontURL string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	b := newBot(api, c, storefrontURL)
	b.bot = api
	return b, nil
}

func newBot(api botAPI, c *container.Container, storefrontURL string) *Bot {
	return &Bot{
		api:        api,
		app:        c,
		storefront: strings.TrimRight(storefrontURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			// Загрузка может идти долго, не задерживаем другие чаты
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	key := sessionKey(msg.Chat.ID)

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, key)
		return
	}

	isPhoto := len(msg.Photo) > 0
	isImage := msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/")

	// Фото принимаем только после /search
	if isPhoto || isImage {
		ok, err := b.app.SessionService.AcceptsPhotos(ctx, key)
		if err != nil {
			log.Printf("Error getting session %s: %v", key, err)
			return
		}
		if !ok {
			b.sendMessage(msg.Chat.ID, msgSearchFirst)
			return
		}
	}

	// Обработка фото
	if isPhoto {
		// Получаем файл с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg.Chat.ID, photo.FileID, photo.FileID+".jpg", "image/jpeg")
		return
	}

	// Картинка, отправленная файлом
	if isImage {
		b.handleImage(ctx, msg.Chat.ID, msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, key string) {
	sessions := b.app.SessionService

	switch msg.Command() {
	case "start":
		if _, err := sessions.Cancel(ctx, key); err != nil {
			log.Printf("Error resetting session %s: %v", key, err)
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "search":
		if _, err := sessions.BeginSearch(ctx, key); err != nil {
			log.Printf("Error starting search for %s: %v", key, err)
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		if _, err := sessions.Cancel(ctx, key); err != nil {
			log.Printf("Error cancelling session %s: %v", key, err)
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleImage загружает фото на распознавание и показывает найденные предметы
func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID, name, contentType string) {
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	shopper := b.app.SessionService.Attach(
		sessionKey(chatID),
		newChatNotifier(b.api, chatID),
		&chatNavigator{api: b.api, chatID: chatID, storefront: b.storefront},
	)

	outcome, err := b.app.SessionService.Upload(ctx, shopper, entity.Image{Name: name, ContentType: contentType, Data: data})
	if err != nil {
		log.Printf("Error updating session %s: %v", shopper.Key, err)
	}
	if !outcome.IsSuccess() {
		return
	}

	b.sendOverlay(chatID, shopper)
}

// sendOverlay отправляет превью с рамками и кнопками предметов
func (b *Bot) sendOverlay(chatID int64, shopper *app.Shopper) {
	view, ok := shopper.Results.LatestView()
	if !ok {
		return
	}

	data, _, err := b.app.Display.Open(view.DisplayRef)
	if err != nil {
		log.Printf("Error opening display reference: %v", err)
		return
	}

	if b.app.Previewer != nil {
		if rendered, err := b.app.Previewer.Render(data, view.Boxes); err == nil {
			data = rendered
		} else {
			log.Printf("Preview is not rendered: %v", err)
		}
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: data})
	photo.Caption = msgFound
	photo.ReplyMarkup = makeItemsKeyboard(view)
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending preview: %v", err)
	}
}

// handleCallback обрабатывает нажатие кнопки предмета
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	if cb.Message == nil || !strings.HasPrefix(cb.Data, callbackSimilar) {
		return
	}
	chatID := cb.Message.Chat.ID

	itemID, ok := b.resolveItem(sessionKey(chatID), strings.TrimPrefix(cb.Data, callbackSimilar))
	if !ok {
		b.sendMessage(chatID, msgStaleItem)
		return
	}

	ids := b.app.SimilarityService.Similar(ctx, itemID)
	if len(ids) == 0 {
		b.sendMessage(chatID, msgNoSimilar)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgSimilar)
	for i, id := range ids {
		fmt.Fprintf(&sb, "\n%d. %s/product/%s", i+1, b.storefront, id)
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = makeResultsKeyboard(entity.VisualSearchRoute(itemID).URL(b.storefront))
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending similar products: %v", err)
	}
}

// resolveItem находит id предмета по данным кнопки "<номер>:<ссылка превью>".
// Кнопки устаревшего превью не срабатывают.
func (b *Bot) resolveItem(key, data string) (string, bool) {
	index, ref, found := strings.Cut(data, ":")
	if !found {
		return "", false
	}
	i, err := strconv.Atoi(index)
	if err != nil {
		return "", false
	}

	shopper, ok := b.app.SessionService.Lookup(key)
	if !ok {
		return "", false
	}
	view, ok := shopper.Results.LatestView()
	if !ok || view.DisplayRef != ref || i < 0 || i >= len(view.Boxes) {
		return "", false
	}
	return view.Boxes[i].ID, true
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
