package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClock 固定时间，不触发等待。
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time                       { return f.now }
func (f *fakeClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

func mustLoadSeoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func TestScheduleNext(t *testing.T) {
	seoul := mustLoadSeoul(t)
	sched := Schedule{
		Weekday:  time.Monday,
		Hour:     9,
		Minute:   0,
		Location: seoul,
	}

	t.Run("周中触发顺延到下周一", func(t *testing.T) {
		// 2026-01-07 是周三
		from := time.Date(2026, 1, 7, 10, 0, 0, 0, seoul)
		next := sched.Next(from)
		assert.Equal(t, time.Monday, next.Weekday())
		assert.Equal(t, time.Date(2026, 1, 12, 9, 0, 0, 0, seoul), next)
	})

	t.Run("当天未到触发时刻", func(t *testing.T) {
		// 2026-01-12 是周一，早于 9 点
		from := time.Date(2026, 1, 12, 8, 0, 0, 0, seoul)
		next := sched.Next(from)
		assert.Equal(t, time.Date(2026, 1, 12, 9, 0, 0, 0, seoul), next)
	})

	t.Run("恰好在触发时刻顺延一周", func(t *testing.T) {
		from := time.Date(2026, 1, 12, 9, 0, 0, 0, seoul)
		next := sched.Next(from)
		assert.Equal(t, time.Date(2026, 1, 19, 9, 0, 0, 0, seoul), next)
	})

	t.Run("跨时区求值", func(t *testing.T) {
		// UTC 周一 01:00 等于首尔周一 10:00，已过 9 点，顺延一周
		from := time.Date(2026, 1, 12, 1, 0, 0, 0, time.UTC)
		next := sched.Next(from)
		assert.Equal(t, time.Date(2026, 1, 19, 9, 0, 0, 0, seoul), next)
	})

	t.Run("默认时区为UTC", func(t *testing.T) {
		s := Schedule{Weekday: time.Friday, Hour: 12}
		from := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
		next := s.Next(from)
		assert.Equal(t, time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC), next)
	})
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]time.Weekday{
		"mon": time.Monday,
		"TUE": time.Tuesday,
		"sun": time.Sunday,
	} {
		got, err := ParseWeekday(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseWeekday("monday")
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)}
	s := New(clock, zap.NewNop())

	ran := 0
	s.Register(Job{
		Name:     "weekly_newsletter",
		Schedule: Schedule{Weekday: time.Monday, Hour: 9},
		Run: func(context.Context) error {
			ran++
			return nil
		},
	})

	require.NoError(t, s.RunNow(context.Background(), "weekly_newsletter"))
	assert.Equal(t, 1, ran)

	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
}

func TestRegisterReplacesJob(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)}
	s := New(clock, zap.NewNop())

	var ranOld, ranNew bool
	sched := Schedule{Weekday: time.Monday, Hour: 9}

	s.Register(Job{Name: "weekly_newsletter", Schedule: sched, Run: func(context.Context) error {
		ranOld = true
		return nil
	}})
	s.Register(Job{Name: "weekly_newsletter", Schedule: sched, Run: func(context.Context) error {
		ranNew = true
		return nil
	}})

	require.NoError(t, s.RunNow(context.Background(), "weekly_newsletter"))
	assert.False(t, ranOld, "被替换的任务不应再执行")
	assert.True(t, ranNew)
}

func TestStartStop(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)}
	s := New(clock, zap.NewNop())

	s.Register(Job{
		Name:     "weekly_newsletter",
		Schedule: Schedule{Weekday: time.Monday, Hour: 9},
		Run:      func(context.Context) error { return nil },
	})

	s.Start(context.Background())
	// fakeClock 的 After 永不触发，任务循环只会阻塞等待
	s.Stop()
}
