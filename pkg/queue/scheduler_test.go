package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/queue"
)

func TestScheduler(t *testing.T) {
	t.Parallel()

	t.Run("creates one pending instance per task", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		s, err := queue.NewScheduler(storage, queue.WithCheckInterval(5*time.Millisecond))
		require.NoError(t, err)
		require.NoError(t, s.AddTask("tenants.recount", queue.Every(time.Hour), queue.WithPeriodicQueue("maintenance")))

		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Run(ctx))
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()
		wg.Wait()

		tasks := storage.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, "tenants.recount", tasks[0].Name)
		assert.Equal(t, queue.KindPeriodic, tasks[0].Kind)
		assert.Equal(t, "maintenance", tasks[0].Queue)
		assert.True(t, tasks[0].ScheduledAt.After(time.Now()))
	})

	t.Run("does not duplicate an already pending task", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		for range 2 {
			s, err := queue.NewScheduler(storage, queue.WithCheckInterval(time.Hour))
			require.NoError(t, err)
			require.NoError(t, s.AddTask("nightly", queue.DailyAt(3, 0)))

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			require.NoError(t, s.Run(ctx))
			cancel()
		}

		assert.Len(t, storage.Tasks(), 1)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		s, err := queue.NewScheduler(queue.NewMemoryStorage())
		require.NoError(t, err)
		require.NoError(t, s.AddTask("a", queue.Every(time.Minute)))
		assert.ErrorIs(t, s.AddTask("a", queue.Every(time.Minute)), queue.ErrTaskAlreadyRegistered)
		assert.Equal(t, []string{"a"}, s.Tasks())
	})

	t.Run("requires tasks", func(t *testing.T) {
		t.Parallel()

		s, err := queue.NewScheduler(queue.NewMemoryStorage())
		require.NoError(t, err)
		assert.ErrorIs(t, s.Run(context.Background()), queue.ErrNoScheduledTasks)
	})
}
