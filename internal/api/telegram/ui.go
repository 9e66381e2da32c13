package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"visual-search/internal/domain/entity"
	"visual-search/internal/infrastructure/vision"
)

// Кнопки "похожие": по одной на предмет, в порядке детекций.
// В данных кнопки номер предмета и ссылка превью, а не id сервиса:
// Telegram ограничивает callback data 64 байтами.
func makeItemsKeyboard(view entity.ImageView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Boxes))
	for i, box := range view.Boxes {
		btn := tgbotapi.NewInlineKeyboardButtonData(vision.Label(i, box), itemCallbackData(i, view.DisplayRef))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func itemCallbackData(i int, ref string) string {
	return callbackSimilar + strconv.Itoa(i) + ":" + ref
}

// Кнопка-ссылка на страницу поиска витрины
func makeResultsKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonURL(msgOpenResults, url)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}
