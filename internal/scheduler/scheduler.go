package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrJobNotFound 任务未注册
var ErrJobNotFound = errors.New("scheduler: job not found")

// Clock 抽象时间源，便于测试注入。
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock 返回系统时钟
func RealClock() Clock { return realClock{} }

// Schedule 周历调度：每周 Weekday 的 Hour:Minute，在 Location 时区求值。
type Schedule struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// Next 计算 from 之后（不含 from 本身）的下一次触发时间
func (s Schedule) Next(from time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	local := from.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
	daysAhead := (int(s.Weekday) - int(local.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)

	if !next.After(local) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// ParseWeekday 解析英文星期缩写（mon..sun）
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun":
		return time.Sunday, nil
	case "mon":
		return time.Monday, nil
	case "tue":
		return time.Tuesday, nil
	case "wed":
		return time.Wednesday, nil
	case "thu":
		return time.Thursday, nil
	case "fri":
		return time.Friday, nil
	case "sat":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday: %q", s)
}

// Job 一个命名的周期任务
type Job struct {
	Name     string
	Schedule Schedule
	Run      func(ctx context.Context) error
}

type managedJob struct {
	job    Job
	cancel context.CancelFunc
}

// Scheduler 周历任务调度器。
// 同名任务重复注册时替换旧任务（旧任务的循环被取消）。
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*managedJob
	clock   Clock
	logger  *zap.Logger
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New 创建调度器
func New(clock Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{
		jobs:   make(map[string]*managedJob),
		clock:  clock,
		logger: logger,
	}
}

// Register 注册任务，同名任务被替换
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[job.Name]; ok {
		if existing.cancel != nil {
			existing.cancel()
		}
		s.logger.Info("替换已存在的调度任务", zap.String("job", job.Name))
	}

	m := &managedJob{job: job}
	s.jobs[job.Name] = m

	// 调度器已启动时立即拉起新任务的循环
	if s.started {
		s.launchLocked(m)
	}
}

// Start 启动调度器，所有已注册任务开始循环
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, m := range s.jobs {
		s.launchLocked(m)
	}
	s.logger.Info("调度器已启动", zap.Int("jobs", len(s.jobs)))
}

func (s *Scheduler) launchLocked(m *managedJob) {
	jobCtx, cancel := context.WithCancel(s.ctx)
	m.cancel = cancel

	s.wg.Add(1)
	go s.loop(jobCtx, m.job)
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	for {
		now := s.clock.Now()
		next := job.Schedule.Next(now)
		wait := next.Sub(now)

		s.logger.Info("任务下次触发时间",
			zap.String("job", job.Name),
			zap.Time("next", next))

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		}

		s.runJob(ctx, job)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	started := s.clock.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("任务执行失败",
			zap.String("job", job.Name),
			zap.Duration("elapsed", s.clock.Now().Sub(started)),
			zap.Error(err))
		return
	}
	s.logger.Info("任务执行完成",
		zap.String("job", job.Name),
		zap.Duration("elapsed", s.clock.Now().Sub(started)))
}

// RunNow 立即执行一次指定任务（不影响其周期调度）
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	m, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return ErrJobNotFound
	}
	return m.job.Run(ctx)
}

// Stop 停止调度器并等待所有任务循环退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("调度器已停止")
}
