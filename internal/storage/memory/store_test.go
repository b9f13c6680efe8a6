package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
)

func TestSubscriberIndexes(t *testing.T) {
	store := NewStore()

	sub := &domain.Subscriber{
		Email:            "reader@example.com",
		IsActive:         true,
		UnsubscribeToken: "token-1",
	}
	require.NoError(t, store.SaveSubscriber(sub))
	require.NotZero(t, sub.ID)

	t.Run("按邮箱查询", func(t *testing.T) {
		got, err := store.GetSubscriberByEmail("reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})

	t.Run("按退订令牌查询", func(t *testing.T) {
		got, err := store.GetSubscriberByToken("token-1")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})

	t.Run("未知邮箱返回未找到", func(t *testing.T) {
		_, err := store.GetSubscriberByEmail("nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrSubscriberNotFound)
	})

	t.Run("更新邮箱后旧索引失效", func(t *testing.T) {
		sub.Email = "renamed@example.com"
		require.NoError(t, store.SaveSubscriber(sub))

		_, err := store.GetSubscriberByEmail("reader@example.com")
		assert.ErrorIs(t, err, storage.ErrSubscriberNotFound)

		got, err := store.GetSubscriberByEmail("renamed@example.com")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})

	t.Run("返回值是副本", func(t *testing.T) {
		got, err := store.GetSubscriber(sub.ID)
		require.NoError(t, err)
		got.Email = "mutated@example.com"

		again, err := store.GetSubscriber(sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed@example.com", again.Email)
	})
}

func TestCountAndListSubscribers(t *testing.T) {
	store := NewStore()

	for i := 0; i < 3; i++ {
		at := time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveSubscriber(&domain.Subscriber{
			Email:            fmt.Sprintf("active%d@example.com", i),
			IsActive:         true,
			UnsubscribeToken: fmt.Sprintf("tok-a-%d", i),
			SubscribedAt:     &at,
		}))
	}
	require.NoError(t, store.SaveSubscriber(&domain.Subscriber{
		Email:            "inactive@example.com",
		IsActive:         false,
		UnsubscribeToken: "tok-i",
	}))

	active, err := store.CountSubscribers(true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), active)

	all, err := store.CountSubscribers(false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all)

	subs, err := store.ListActiveSubscribers()
	require.NoError(t, err)
	require.Len(t, subs, 3)
	// 按订阅时间倒序，最新订阅在前
	assert.Equal(t, "active2@example.com", subs[0].Email)
	assert.Equal(t, "active0@example.com", subs[2].Email)

	t.Run("列表按订阅时间倒序", func(t *testing.T) {
		store := NewStore()
		oldAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		newAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveSubscriber(&domain.Subscriber{
			Email: "old@example.com", IsActive: true, UnsubscribeToken: "tok-old", SubscribedAt: &oldAt,
		}))
		require.NoError(t, store.SaveSubscriber(&domain.Subscriber{
			Email: "new@example.com", IsActive: true, UnsubscribeToken: "tok-new", SubscribedAt: &newAt,
		}))

		subs, err := store.ListActiveSubscribers()
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "new@example.com", subs[0].Email)

		items, _, err := store.ListSubscribers(nil, 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "new@example.com", items[0].Email)
	})

	t.Run("分页列表按状态过滤", func(t *testing.T) {
		items, total, err := store.ListSubscribers(nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, items, 4)

		inactiveOnly := false
		items, total, err = store.ListSubscribers(&inactiveOnly, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "inactive@example.com", items[0].Email)
	})
}

func TestMarkNewsletterSent(t *testing.T) {
	store := NewStore()

	n := &domain.Newsletter{Title: "第一期", Content: "<p>hi</p>", Status: domain.NewsletterStatusDraft}
	require.NoError(t, store.SaveNewsletter(n))

	sentAt := time.Now().UTC()
	require.NoError(t, store.MarkNewsletterSent(n.ID, 42, sentAt))

	got, err := store.GetNewsletter(n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewsletterStatusSent, got.Status)
	assert.Equal(t, 42, got.RecipientCount)
	require.NotNil(t, got.SentAt)

	t.Run("重复标记返回已发送错误", func(t *testing.T) {
		err := store.MarkNewsletterSent(n.ID, 99, time.Now().UTC())
		assert.ErrorIs(t, err, storage.ErrNewsletterAlreadySent)

		// 原始收件人数不被覆盖
		got, err := store.GetNewsletter(n.ID)
		require.NoError(t, err)
		assert.Equal(t, 42, got.RecipientCount)
	})

	t.Run("已发送后标记失败为空操作", func(t *testing.T) {
		require.NoError(t, store.MarkNewsletterFailed(n.ID))

		got, err := store.GetNewsletter(n.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewsletterStatusSent, got.Status)
	})

	t.Run("不存在的通讯", func(t *testing.T) {
		err := store.MarkNewsletterSent(999, 1, time.Now().UTC())
		assert.ErrorIs(t, err, storage.ErrNewsletterNotFound)
	})
}

func TestListNewslettersPagination(t *testing.T) {
	store := NewStore()

	for i := 0; i < 25; i++ {
		n := &domain.Newsletter{
			Title:   fmt.Sprintf("第 %d 期", i+1),
			Content: "body",
			Status:  domain.NewsletterStatusDraft,
		}
		require.NoError(t, store.SaveNewsletter(n))
	}
	// 其中 5 期标记为已发送
	for id := uint(1); id <= 5; id++ {
		require.NoError(t, store.MarkNewsletterSent(id, 10, time.Now().UTC()))
	}

	t.Run("分页截取", func(t *testing.T) {
		items, total, err := store.ListNewsletters(nil, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Len(t, items, 10)
	})

	t.Run("末页不足一页", func(t *testing.T) {
		items, total, err := store.ListNewsletters(nil, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Len(t, items, 5)
	})

	t.Run("超出范围返回空页", func(t *testing.T) {
		items, _, err := store.ListNewsletters(nil, 9, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		sent := domain.NewsletterStatusSent
		items, total, err := store.ListNewsletters(&sent, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, items, 5)
	})
}

func TestRequestOrdering(t *testing.T) {
	store := NewStore()

	for i, votes := range []int{2, 7, 5} {
		require.NoError(t, store.SaveRequest(&domain.NewsletterRequest{
			Email:  fmt.Sprintf("voter%d@example.com", i),
			Topic:  fmt.Sprintf("topic-%d", i),
			Votes:  votes,
			Status: domain.RequestStatusPending,
		}))
	}

	items, total, err := store.ListRequests(nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)

	// 票数降序
	assert.Equal(t, 7, items[0].Votes)
	assert.Equal(t, 5, items[1].Votes)
	assert.Equal(t, 2, items[2].Votes)

	t.Run("优先级高的请求排在票数前面", func(t *testing.T) {
		require.NoError(t, store.SaveRequest(&domain.NewsletterRequest{
			Email:    "editor@example.com",
			Topic:    "editor-pick",
			Votes:    1,
			Priority: 10,
			Status:   domain.RequestStatusPending,
		}))

		items, _, err := store.ListRequests(nil, 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 4)

		// 优先级优先，其余仍按票数降序
		assert.Equal(t, "editor-pick", items[0].Topic)
		assert.Equal(t, 7, items[1].Votes)
	})
}

func TestUserEmailUniqueness(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.CreateUser(&domain.User{
		Email: "member@example.com",
		Role:  domain.RoleUser,
	}))

	err := store.CreateUser(&domain.User{
		Email: "member@example.com",
		Role:  domain.RoleUser,
	})
	assert.Error(t, err)
}
