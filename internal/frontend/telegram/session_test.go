package telegram

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadimtrunov/showtime/internal/dispatch"
)

func testSessionFactory(closed *int) func(chatID int64) *chatSession {
	b := newBot(&fakeSender{}, nil, (&stubCatalog{}).deps(), testLogger())
	b.newExecutor = func() (dispatch.Executor, func()) {
		return dispatch.Inline, func() {
			if closed != nil {
				*closed++
			}
		}
	}
	return b.newSession
}

func TestSessionManager_IsAllowed(t *testing.T) {
	t.Run("empty whitelist allows all", func(t *testing.T) {
		sm := newSessionManager(nil)
		assert.True(t, sm.isAllowed(123))
		assert.True(t, sm.isAllowed(456))
	})

	t.Run("empty slice allows all", func(t *testing.T) {
		sm := newSessionManager([]int64{})
		assert.True(t, sm.isAllowed(123))
	})

	t.Run("whitelist restricts", func(t *testing.T) {
		sm := newSessionManager([]int64{100, 200})
		assert.True(t, sm.isAllowed(100))
		assert.True(t, sm.isAllowed(200))
		assert.False(t, sm.isAllowed(300))
	})
}

func TestSessionManager_GetOrCreate(t *testing.T) {
	sm := newSessionManager(nil)
	factory := testSessionFactory(nil)

	s1 := sm.getOrCreate(100, factory)
	require.NotNil(t, s1)
	assert.Equal(t, int64(100), s1.chatID)

	s2 := sm.getOrCreate(100, factory)
	assert.Same(t, s1, s2, "same chat should reuse its session")

	s3 := sm.getOrCreate(200, factory)
	assert.NotSame(t, s1, s3, "different chats get different sessions")
	assert.Equal(t, 2, sm.len())
}

func TestSessionManager_CloseAll(t *testing.T) {
	var closed int
	sm := newSessionManager(nil)
	factory := testSessionFactory(&closed)

	s1 := sm.getOrCreate(100, factory)
	sm.getOrCreate(200, factory)
	sm.closeAll()

	assert.Equal(t, 2, closed, "every executor should be stopped")
	assert.Equal(t, 0, sm.len())
	assert.NotSame(t, s1, sm.getOrCreate(100, factory), "closeAll should drop old sessions")
}

func TestSessionManager_Concurrent(t *testing.T) {
	sm := newSessionManager(nil)
	factory := testSessionFactory(nil)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chatID := int64(i % 10)
			assert.NotNil(t, sm.getOrCreate(chatID, factory))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, sm.len())
}
