package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/memory"
)

func seedActivity(t *testing.T, svc *ActivityService, title string, at time.Time, typ domain.ActivityType, creator string) *domain.Activity {
	t.Helper()
	a, err := svc.Create(ActivityInput{
		Title:        title,
		Description:  "# " + title,
		ActivityDate: at,
		Type:         typ,
	}, creator)
	require.NoError(t, err)
	return a
}

func TestActivityCRUD(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store, zap.NewNop())

	participants := 8
	a, err := svc.Create(ActivityInput{
		Title:        "周会",
		Description:  "# 本周进展",
		ActivityDate: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Type:         domain.ActivityTypeMeeting,
		Participants: &participants,
		Location:     "会议室 A",
	}, "user-1")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, "user-1", a.CreatedBy)
	assert.NotNil(t, a.Images, "未传图片时序列化为空列表而非 null")

	got, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "周会", got.Title)
	require.NotNil(t, got.Participants)
	assert.Equal(t, 8, *got.Participants)

	t.Run("创建者可以更新", func(t *testing.T) {
		updated, err := svc.Update(a.ID, ActivityInput{
			Title:        "周会（改期）",
			Description:  got.Description,
			ActivityDate: got.ActivityDate.Add(24 * time.Hour),
			Type:         got.Type,
		}, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "周会（改期）", updated.Title)
	})

	t.Run("非创建者不能更新", func(t *testing.T) {
		_, err := svc.Update(a.ID, ActivityInput{
			Title:        "别人的修改",
			Description:  got.Description,
			ActivityDate: got.ActivityDate,
			Type:         got.Type,
		}, "user-2")
		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("非创建者不能删除", func(t *testing.T) {
		err := svc.Delete(a.ID, "user-2")
		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("创建者可以删除", func(t *testing.T) {
		require.NoError(t, svc.Delete(a.ID, "user-1"))
		_, err := svc.Get(a.ID)
		assert.ErrorIs(t, err, storage.ErrActivityNotFound)
	})
}

func TestActivityList(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store, zap.NewNop())

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	seedActivity(t, svc, "早期研讨", base, domain.ActivityTypeSeminar, "user-1")
	seedActivity(t, svc, "近期周会", base.AddDate(0, 0, 14), domain.ActivityTypeMeeting, "user-1")
	seedActivity(t, svc, "中期学习", base.AddDate(0, 0, 7), domain.ActivityTypeStudy, "user-1")

	items, result, err := svc.List(nil, Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	require.Len(t, items, 3)
	// 按活动日期倒序
	assert.Equal(t, "近期周会", items[0].Title)
	assert.Equal(t, "早期研讨", items[2].Title)

	t.Run("按类型过滤", func(t *testing.T) {
		typ := domain.ActivityTypeSeminar
		items, result, err := svc.List(&typ, Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, items, 1)
		assert.Equal(t, "早期研讨", items[0].Title)
	})
}
