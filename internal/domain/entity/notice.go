package entity

import "time"

// NoticeType: канал пользовательских уведомлений.
type NoticeType string

const (
	NoticeInfo  NoticeType = "info"
	NoticeError NoticeType = "error"
)

// NoticeKey: ключ сообщения в таблице переводов.
type NoticeKey string

const (
	NoticeUploading    NoticeKey = "imageUploader.uploading"
	NoticeUploadError  NoticeKey = "imageUploader.uploadingStatusError"
	NoticeEmptyResults NoticeKey = "imageUploader.uploadingStatusEmptyResults"
)

// UploadingNoticeTimeout: сколько максимум висит уведомление о загрузке.
// На сам запрос не влияет.
const UploadingNoticeTimeout = 300 * time.Second

// Notice: уведомление, показываемое пользователю.
type Notice struct {
	Key     NoticeKey
	Type    NoticeType
	Timeout time.Duration // 0: до явного снятия
}

var noticeText = map[NoticeKey]string{
	NoticeUploading:    "⏳ Загружаю изображение...",
	NoticeUploadError:  "⚠️ Не удалось загрузить изображение. Попробуйте ещё раз.",
	NoticeEmptyResults: "🔍 На изображении не найдено ни одного предмета одежды.",
}

// Text возвращает текст сообщения, для неизвестного ключа сам ключ.
func (k NoticeKey) Text() string {
	if s, ok := noticeText[k]; ok {
		return s
	}
	return string(k)
}

// NoticeFor сопоставляет итог загрузки с уведомлением об ошибке.
// Для успешного итога ok == false.
func NoticeFor(o UploadOutcome) (Notice, bool) {
	switch o.Kind {
	case OutcomeEmptyDetection:
		return Notice{Key: NoticeEmptyResults, Type: NoticeError}, true
	case OutcomeTransportFailure:
		return Notice{Key: NoticeUploadError, Type: NoticeError}, true
	default:
		return Notice{}, false
	}
}

// UploadingNotice: уведомление "идёт загрузка".
func UploadingNotice() Notice {
	return Notice{Key: NoticeUploading, Type: NoticeInfo, Timeout: UploadingNoticeTimeout}
}
