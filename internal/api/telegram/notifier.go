package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// chatNotifier показывает уведомления сообщениями в чате и удаляет их при снятии.
type chatNotifier struct {
	api    botAPI
	chatID int64

	mu    sync.Mutex
	shown map[entity.NoticeType][]int
}

func newChatNotifier(api botAPI, chatID int64) *chatNotifier {
	return &chatNotifier{
		api:    api,
		chatID: chatID,
		shown:  make(map[entity.NoticeType][]int),
	}
}

func (n *chatNotifier) Add(ctx context.Context, notice entity.Notice) {
	msg, err := n.api.Send(tgbotapi.NewMessage(n.chatID, notice.Key.Text()))
	if err != nil {
		log.Printf("Error sending notice %s: %v", notice.Key, err)
		return
	}

	n.mu.Lock()
	n.shown[notice.Type] = append(n.shown[notice.Type], msg.MessageID)
	n.mu.Unlock()

	if notice.Timeout > 0 {
		time.AfterFunc(notice.Timeout, func() { n.expire(notice.Type, msg.MessageID) })
	}
}

func (n *chatNotifier) Remove(ctx context.Context, noticeType entity.NoticeType) {
	n.mu.Lock()
	ids := n.shown[noticeType]
	delete(n.shown, noticeType)
	n.mu.Unlock()

	for _, id := range ids {
		n.delete(id)
	}
}

// expire снимает уведомление по таймауту, если его ещё не сняли.
func (n *chatNotifier) expire(noticeType entity.NoticeType, messageID int) {
	n.mu.Lock()
	ids := n.shown[noticeType]
	found := false
	for i, id := range ids {
		if id == messageID {
			n.shown[noticeType] = append(ids[:i:i], ids[i+1:]...)
			found = true
			break
		}
	}
	n.mu.Unlock()

	if found {
		n.delete(messageID)
	}
}

func (n *chatNotifier) delete(messageID int) {
	if _, err := n.api.Request(tgbotapi.NewDeleteMessage(n.chatID, messageID)); err != nil {
		log.Printf("Error deleting notice message %d: %v", messageID, err)
	}
}

// chatNavigator отправляет ссылку на страницу поиска витрины.
type chatNavigator struct {
	api        botAPI
	chatID     int64
	storefront string
}

func (n *chatNavigator) Go(ctx context.Context, route entity.Route) error {
	msg := tgbotapi.NewMessage(n.chatID, msgResultsReady)
	msg.ReplyMarkup = makeResultsKeyboard(route.URL(n.storefront))
	_, err := n.api.Send(msg)
	return err
}

var (
	_ port.Notifier  = (*chatNotifier)(nil)
	_ port.Navigator = (*chatNavigator)(nil)
)
