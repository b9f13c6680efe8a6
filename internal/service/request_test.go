package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/memory"
)

func TestRequestSetPriority(t *testing.T) {
	store := memory.NewStore()
	svc := NewRequestService(store, zap.NewNop())

	low, err := svc.Create(RequestInput{
		Email: "reader@example.com",
		Topic: "Go 泛型实践",
	})
	require.NoError(t, err)

	popular, err := svc.Create(RequestInput{
		Email: "fans@example.com",
		Topic: "微服务拆分",
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.Vote(popular.ID)
		require.NoError(t, err)
	}

	// 未设置优先级时票数多的在前
	items, _, err := svc.List(nil, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, popular.ID, items[0].ID)

	updated, err := svc.SetPriority(low.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Priority)

	// 优先级覆盖票数排序
	items, _, err = svc.List(nil, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, low.ID, items[0].ID)

	t.Run("请求不存在", func(t *testing.T) {
		_, err := svc.SetPriority(9999, 3)
		assert.ErrorIs(t, err, storage.ErrRequestNotFound)
	})
}
