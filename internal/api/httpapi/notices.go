package httpapi

import (
	"context"
	"sync"
	"time"

	"visual-search/internal/domain/entity"
	"visual-search/internal/domain/port"
)

// NoticeView: уведомление в ответе API.
type NoticeView struct {
	Key  entity.NoticeKey  `json:"key"`
	Type entity.NoticeType `json:"type"`
	Text string            `json:"text"`
}

type shownNotice struct {
	notice  entity.Notice
	expires time.Time
}

// NoticeBoard хранит уведомления веб-сессии до снятия или истечения таймаута.
type NoticeBoard struct {
	now func() time.Time

	mu      sync.Mutex
	notices []shownNotice
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{now: time.Now}
}

func (b *NoticeBoard) Add(ctx context.Context, notice entity.Notice) {
	sn := shownNotice{notice: notice}
	if notice.Timeout > 0 {
		sn.expires = b.now().Add(notice.Timeout)
	}

	b.mu.Lock()
	b.notices = append(b.notices, sn)
	b.mu.Unlock()
}

func (b *NoticeBoard) Remove(ctx context.Context, noticeType entity.NoticeType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.notices[:0]
	for _, sn := range b.notices {
		if sn.notice.Type != noticeType {
			kept = append(kept, sn)
		}
	}
	b.notices = kept
}

// Current возвращает неистёкшие уведомления в порядке появления.
func (b *NoticeBoard) Current() []NoticeView {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	out := make([]NoticeView, 0, len(b.notices))
	for _, sn := range b.notices {
		if !sn.expires.IsZero() && now.After(sn.expires) {
			continue
		}
		out = append(out, NoticeView{Key: sn.notice.Key, Type: sn.notice.Type, Text: sn.notice.Key.Text()})
	}
	return out
}

var _ port.Notifier = (*NoticeBoard)(nil)
