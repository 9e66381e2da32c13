package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"visual-search/internal/domain/entity"
)

func TestNoticeBoard_AddRemove(t *testing.T) {
	b := NewNoticeBoard()
	ctx := context.Background()

	b.Add(ctx, entity.UploadingNotice())
	b.Add(ctx, entity.Notice{Key: entity.NoticeUploadError, Type: entity.NoticeError})
	require.Len(t, b.Current(), 2)

	b.Remove(ctx, entity.NoticeInfo)
	current := b.Current()
	require.Len(t, current, 1)
	require.Equal(t, entity.NoticeUploadError, current[0].Key)
	require.Equal(t, entity.NoticeUploadError.Text(), current[0].Text)
}

func TestNoticeBoard_Expires(t *testing.T) {
	b := NewNoticeBoard()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.Add(context.Background(), entity.UploadingNotice())
	require.Len(t, b.Current(), 1)

	now = now.Add(entity.UploadingNoticeTimeout + time.Second)
	require.Empty(t, b.Current())
}
