package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/mail"
	"teamsite/backend/internal/storage/memory"
)

// fakeSender 记录每个批次并按序号模拟失败。
type fakeSender struct {
	batches     [][]mail.Recipient
	failBatches map[int]bool // 失败的批次序号（从 1 开始）
	failAll     bool
}

func (f *fakeSender) SendNewsletter(_ context.Context, to []mail.Recipient, _, _ string) error {
	f.batches = append(f.batches, to)
	index := len(f.batches)
	if f.failAll || f.failBatches[index] {
		return errors.New("smtp unavailable")
	}
	return nil
}

func seedSubscribers(t *testing.T, store *memory.Store, count int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		sub := &domain.Subscriber{
			Email:            fmt.Sprintf("reader%03d@example.com", i),
			IsActive:         true,
			UnsubscribeToken: fmt.Sprintf("token-%03d", i),
			SubscribedAt:     &now,
		}
		require.NoError(t, store.SaveSubscriber(sub))
	}
}

func seedNewsletter(t *testing.T, store *memory.Store) *domain.Newsletter {
	t.Helper()
	n := &domain.Newsletter{
		Title:   "Weekly Update",
		Content: "<p>hello</p>",
		Status:  domain.NewsletterStatusDraft,
	}
	require.NoError(t, store.SaveNewsletter(n))
	return n
}

func newNewsletterService(store *memory.Store, sender *fakeSender, batchSize int) *NewsletterService {
	return NewNewsletterService(store, store, sender, batchSize, nil, zap.NewNop())
}

func TestSendToAll_Batching(t *testing.T) {
	t.Run("120人按50分3批", func(t *testing.T) {
		store := memory.NewStore()
		seedSubscribers(t, store, 120)
		n := seedNewsletter(t, store)
		sender := &fakeSender{}
		svc := newNewsletterService(store, sender, 50)

		report, err := svc.SendToAll(context.Background(), n.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, report.BatchCount)
		assert.Equal(t, 120, report.RecipientCount)
		require.Len(t, sender.batches, 3)
		assert.Len(t, sender.batches[0], 50)
		assert.Len(t, sender.batches[1], 50)
		assert.Len(t, sender.batches[2], 20)

		got, err := store.GetNewsletter(n.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewsletterStatusSent, got.Status)
		assert.Equal(t, 120, got.RecipientCount)
		assert.NotNil(t, got.SentAt)
	})

	t.Run("恰好整除不产生空批", func(t *testing.T) {
		store := memory.NewStore()
		seedSubscribers(t, store, 100)
		n := seedNewsletter(t, store)
		sender := &fakeSender{}
		svc := newNewsletterService(store, sender, 50)

		report, err := svc.SendToAll(context.Background(), n.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, report.BatchCount)
		assert.Equal(t, 100, report.RecipientCount)
	})
}

func TestSendToAll_NoSubscribers(t *testing.T) {
	store := memory.NewStore()
	n := seedNewsletter(t, store)
	sender := &fakeSender{}
	svc := newNewsletterService(store, sender, 50)

	report, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RecipientCount)
	assert.Empty(t, sender.batches)

	// 没有订阅者时通讯保持草稿状态
	got, err := store.GetNewsletter(n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewsletterStatusDraft, got.Status)
}

func TestSendToAll_PartialFailure(t *testing.T) {
	store := memory.NewStore()
	seedSubscribers(t, store, 120)
	n := seedNewsletter(t, store)
	sender := &fakeSender{failBatches: map[int]bool{2: true}}
	svc := newNewsletterService(store, sender, 50)

	report, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)

	// 第2批(50人)失败，计数只含成功批次
	assert.Equal(t, 70, report.RecipientCount)
	assert.Equal(t, []int{2}, report.FailedBatches)

	got, err := store.GetNewsletter(n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewsletterStatusSent, got.Status, "部分成功仍标记已发送")
	assert.Equal(t, 70, got.RecipientCount)
}

func TestSendToAll_AllBatchesFailed(t *testing.T) {
	store := memory.NewStore()
	seedSubscribers(t, store, 60)
	n := seedNewsletter(t, store)
	sender := &fakeSender{failAll: true}
	svc := newNewsletterService(store, sender, 50)

	report, err := svc.SendToAll(context.Background(), n.ID)
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Equal(t, 0, report.RecipientCount)
	assert.Equal(t, []int{1, 2}, report.FailedBatches)

	got, getErr := store.GetNewsletter(n.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.NewsletterStatusFailed, got.Status)
}

func TestSendToAll_AlreadySent(t *testing.T) {
	store := memory.NewStore()
	seedSubscribers(t, store, 10)
	n := seedNewsletter(t, store)
	sender := &fakeSender{}
	svc := newNewsletterService(store, sender, 50)

	first, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, first.RecipientCount)

	// 第二次发送不触达任何订阅者，返回历史计数
	second, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadySent)
	assert.Equal(t, 10, second.RecipientCount)
	assert.Len(t, sender.batches, 1, "不应重复投递")
}

func TestSendToAll_SkipsInactiveSubscribers(t *testing.T) {
	store := memory.NewStore()
	seedSubscribers(t, store, 5)

	now := time.Now().UTC()
	inactive := &domain.Subscriber{
		Email:            "gone@example.com",
		IsActive:         false,
		UnsubscribeToken: "token-gone",
		SubscribedAt:     &now,
		UnsubscribedAt:   &now,
	}
	require.NoError(t, store.SaveSubscriber(inactive))

	n := seedNewsletter(t, store)
	sender := &fakeSender{}
	svc := newNewsletterService(store, sender, 50)

	report, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, report.RecipientCount)
	for _, batch := range sender.batches {
		for _, rcpt := range batch {
			assert.NotEqual(t, "gone@example.com", rcpt.Email)
		}
	}
}

func TestSendToAll_RecipientsCarryUnsubscribeTokens(t *testing.T) {
	store := memory.NewStore()
	seedSubscribers(t, store, 3)
	n := seedNewsletter(t, store)
	sender := &fakeSender{}
	svc := newNewsletterService(store, sender, 50)

	_, err := svc.SendToAll(context.Background(), n.ID)
	require.NoError(t, err)

	// 每个收件人都带上自己的退订令牌，供邮件模板生成专属退订链接
	require.Len(t, sender.batches, 1)
	seen := make(map[string]string)
	for _, rcpt := range sender.batches[0] {
		assert.NotEmpty(t, rcpt.UnsubscribeToken)
		seen[rcpt.Email] = rcpt.UnsubscribeToken
	}
	assert.Equal(t, "token-001", seen["reader001@example.com"])
}

func TestSendToAll_NewsletterNotFound(t *testing.T) {
	store := memory.NewStore()
	svc := newNewsletterService(store, &fakeSender{}, 50)

	_, err := svc.SendToAll(context.Background(), 999)
	assert.Error(t, err)
}

func TestNewsletterCRUD(t *testing.T) {
	store := memory.NewStore()
	svc := newNewsletterService(store, &fakeSender{}, 50)

	n, err := svc.Create(CreateInput{Title: "Manual Issue", Content: "<p>body</p>"})
	require.NoError(t, err)
	assert.Equal(t, domain.NewsletterStatusDraft, n.Status)
	assert.False(t, n.IsAutoGenerated)

	got, err := svc.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manual Issue", got.Title)

	items, pageMeta, err := svc.List(nil, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), pageMeta.Total)
	assert.Equal(t, 1, pageMeta.TotalPages)

	require.NoError(t, svc.Delete(n.ID))
	_, err = svc.Get(n.ID)
	assert.Error(t, err)
}
