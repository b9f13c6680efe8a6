package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/memory"
)

func newSubscriberService() (*SubscriberService, *memory.Store) {
	store := memory.NewStore()
	return NewSubscriberService(store, zap.NewNop()), store
}

func TestSubscribe(t *testing.T) {
	t.Run("新订阅", func(t *testing.T) {
		svc, _ := newSubscriberService()

		sub, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)
		assert.NotZero(t, sub.ID)
		assert.True(t, sub.IsActive)
		assert.NotEmpty(t, sub.UnsubscribeToken)
		assert.NotNil(t, sub.SubscribedAt)
		assert.Nil(t, sub.UnsubscribedAt)
	})

	t.Run("邮箱规范化", func(t *testing.T) {
		svc, _ := newSubscriberService()

		sub, err := svc.Subscribe("  Reader@Example.COM ", nil)
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", sub.Email)
	})

	t.Run("重复订阅幂等", func(t *testing.T) {
		svc, _ := newSubscriberService()

		first, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)

		second, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.UnsubscribeToken, second.UnsubscribeToken, "重复订阅不应刷新令牌")
	})

	t.Run("退订后重新订阅恢复激活", func(t *testing.T) {
		svc, _ := newSubscriberService()

		first, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)
		require.NoError(t, svc.Unsubscribe("reader@example.com"))

		second, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "重新激活沿用原记录")
		assert.True(t, second.IsActive)
		assert.Nil(t, second.UnsubscribedAt)
	})

	t.Run("无效邮箱", func(t *testing.T) {
		svc, _ := newSubscriberService()

		_, err := svc.Subscribe("no-at-sign", nil)
		assert.Error(t, err)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("正常退订", func(t *testing.T) {
		svc, store := newSubscriberService()

		_, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)

		require.NoError(t, svc.Unsubscribe("reader@example.com"))

		sub, err := store.GetSubscriberByEmail("reader@example.com")
		require.NoError(t, err)
		assert.False(t, sub.IsActive)
		assert.NotNil(t, sub.UnsubscribedAt)
	})

	t.Run("重复退订幂等", func(t *testing.T) {
		svc, _ := newSubscriberService()

		_, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)

		require.NoError(t, svc.Unsubscribe("reader@example.com"))
		assert.NoError(t, svc.Unsubscribe("reader@example.com"))
	})

	t.Run("不存在的邮箱", func(t *testing.T) {
		svc, _ := newSubscriberService()

		err := svc.Unsubscribe("nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrSubscriberNotFound)
	})

	t.Run("通过令牌退订", func(t *testing.T) {
		svc, store := newSubscriberService()

		sub, err := svc.Subscribe("reader@example.com", nil)
		require.NoError(t, err)

		require.NoError(t, svc.UnsubscribeByToken(sub.UnsubscribeToken))

		got, err := store.GetSubscriberByEmail("reader@example.com")
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}

func TestCountActive(t *testing.T) {
	svc, _ := newSubscriberService()

	_, err := svc.Subscribe("a@example.com", nil)
	require.NoError(t, err)
	_, err = svc.Subscribe("b@example.com", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe("b@example.com"))

	count, err := svc.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
