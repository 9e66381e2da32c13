package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"visual-search/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	first, err := repo.Get(ctx, "tg:1")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, first.State)

	second, err := repo.Get(ctx, "tg:1")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NotSame(t, first, second)
}

func TestMemorySessionRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpdateRoute(ctx, "web:a", entity.VisualSearchRoute("X")))

	s, err := repo.Get(ctx, "web:a")
	require.NoError(t, err)
	s.SetState(entity.StateUploading)
	s.Route.Query = "visual-Y"

	stored, err := repo.Get(ctx, "web:a")
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, stored.State)
	require.Equal(t, "visual-X", stored.Route.Query)
}

func TestMemorySessionRepository_UpdateState(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpdateState(ctx, "missing", entity.StateUploading))
	s, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, entity.StateUploading, s.State)

	require.NoError(t, repo.UpdateState(ctx, "missing", entity.StateAwaitingPhoto))
	s, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, s.State)
}

func TestMemorySessionRepository_UpdateRouteAndDelete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpdateRoute(ctx, "web:a", entity.VisualSearchRoute("P1")))
	s, err := repo.Get(ctx, "web:a")
	require.NoError(t, err)
	require.Equal(t, "visual-P1", s.Route.Query)

	require.NoError(t, repo.Delete(ctx, "web:a"))
	s, err = repo.Get(ctx, "web:a")
	require.NoError(t, err)
	require.Nil(t, s.Route)
}

func TestMemorySessionRepository_ConcurrentWritesAndReads(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = repo.UpdateState(ctx, "web:a", entity.StateUploading)
			_ = repo.UpdateRoute(ctx, "web:a", entity.VisualSearchRoute(fmt.Sprintf("P%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			s, err := repo.Get(ctx, "web:a")
			if err == nil && s.Route != nil {
				_ = s.Route.Query
			}
			_ = s.State
		}()
	}
	wg.Wait()

	s, err := repo.Get(ctx, "web:a")
	require.NoError(t, err)
	require.Equal(t, entity.StateUploading, s.State)
	require.True(t, entity.IsVisualQuery(s.Route.Query))
}
