package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc представляет функцию задачи планировщика.
type JobFunc func(ctx context.Context) error

// JobID представляет идентификатор cron-задачи.
type JobID = cron.EntryID

// OverlapPolicy определяет политику обработки перекрывающихся выполнений задач.
type OverlapPolicy int

const (
	// AllowOverlap разрешает параллельное выполнение задач (по умолчанию).
	AllowOverlap OverlapPolicy = iota
	// SkipIfRunning пропускает выполнение, если задача уже запущена.
	SkipIfRunning
	// DelayIfRunning ждет завершения предыдущего выполнения.
	DelayIfRunning
)

// JobOptions содержит опции для настройки задач.
type JobOptions struct {
	// Name - имя задачи для логирования.
	Name string
	// Timeout - максимальное время выполнения задачи (необязательно).
	Timeout time.Duration
	// OverlapPolicy - политика обработки перекрывающихся выполнений.
	OverlapPolicy OverlapPolicy
}

// JobHooks содержит необязательные хуки для наблюдаемости.
type JobHooks struct {
	OnJobStart  func(jobName string)
	OnJobFinish func(jobName string, duration time.Duration, err error)
}

// Config содержит конфигурацию планировщика.
type Config struct {
	Logger   *slog.Logger
	JobHooks JobHooks
	// Seconds включает расписания из шести полей (первое поле - секунды).
	// По умолчанию используется стандартный формат из пяти полей.
	Seconds bool
}

// Scheduler запускает задачи по cron-расписанию.
type Scheduler struct {
	cron     *cron.Cron
	parser   cron.ScheduleParser
	logger   *slog.Logger
	hooks    JobHooks
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// New создает новый экземпляр планировщика с background контекстом.
func New(cfg Config) *Scheduler {
	return NewWithContext(context.Background(), cfg)
}

// NewWithContext создает планировщик; отмена parentCtx отменяет контексты задач.
func NewWithContext(parentCtx context.Context, cfg Config) *Scheduler {
	ctx, cancel := context.WithCancel(parentCtx)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parser := newParser(cfg.Seconds)
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLogger{logger: logger.With("component", "cron")}),
		),
		parser: parser,
		logger: logger,
		hooks:  cfg.JobHooks,
		ctx:    ctx,
		cancel: cancel,
	}
}

func newParser(seconds bool) cron.Parser {
	fields := cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor
	if seconds {
		fields |= cron.Second
	}
	return cron.NewParser(fields)
}

// ValidateSchedule проверяет расписание в стандартном формате из пяти полей
// или дескриптор вида "@every 1m", "@hourly".
func ValidateSchedule(schedule string) error {
	_, err := newParser(false).Parse(schedule)
	return err
}

// AddJob добавляет задачу по cron-расписанию.
// Примеры расписаний:
//   - "*/5 * * * *" - каждые 5 минут
//   - "@hourly" - каждый час
//   - "@every 30s" - каждые 30 секунд
func (s *Scheduler) AddJob(schedule string, job JobFunc, opts JobOptions) (JobID, error) {
	if opts.Name == "" {
		opts.Name = "unnamed"
	}

	sched, err := s.parser.Parse(schedule)
	if err != nil {
		s.logger.Error("failed to add cron job", "schedule", schedule, "name", opts.Name, "error", err)
		return 0, err
	}

	chainLogger := cronLogger{logger: s.logger.With("job", opts.Name)}
	var chain cron.Chain
	switch opts.OverlapPolicy {
	case SkipIfRunning:
		chain = cron.NewChain(cron.SkipIfStillRunning(chainLogger))
	case DelayIfRunning:
		chain = cron.NewChain(cron.DelayIfStillRunning(chainLogger))
	default:
		chain = cron.NewChain()
	}

	id := s.cron.Schedule(sched, chain.Then(cron.FuncJob(func() {
		s.runJob(job, opts)
	})))

	s.logger.Info("cron job added", "schedule", schedule, "name", opts.Name, "id", id)
	return id, nil
}

// RemoveJob удаляет задачу по ID.
func (s *Scheduler) RemoveJob(id JobID) {
	s.cron.Remove(id)
	s.logger.Info("cron job removed", "id", id)
}

// Len возвращает количество зарегистрированных задач.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start запускает планировщик. Повторный вызов ничего не делает.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения запущенных задач
// не дольше, чем позволяет ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.logger.Info("stopping scheduler")
		s.cancel()

		done := s.cron.Stop()
		select {
		case <-done.Done():
			s.logger.Info("scheduler stopped")
		case <-ctx.Done():
			s.logger.Warn("scheduler stop deadline exceeded")
			err = ctx.Err()
		}
	})
	return err
}

// IsRunning возвращает true, пока планировщик не остановлен.
func (s *Scheduler) IsRunning() bool {
	return s.ctx.Err() == nil
}

func (s *Scheduler) runJob(job JobFunc, opts JobOptions) {
	if s.hooks.OnJobStart != nil {
		s.hooks.OnJobStart(opts.Name)
	}

	ctx := s.ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := safeRun(ctx, job)
	duration := time.Since(start)

	if s.hooks.OnJobFinish != nil {
		s.hooks.OnJobFinish(opts.Name, duration, err)
	}

	if err != nil {
		s.logger.Error("job failed", "name", opts.Name, "error", err, "duration", duration)
		return
	}
	s.logger.Debug("job completed", "name", opts.Name, "duration", duration)
}

// safeRun превращает панику задачи в ошибку.
func safeRun(ctx context.Context, job JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job(ctx)
}

// cronLogger адаптер для интеграции cron logger с slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.LogAttrs(context.Background(), slog.LevelError, msg, append(attrs(keysAndValues), slog.Any("error", err))...)
}

func attrs(keysAndValues []any) []slog.Attr {
	out := make([]slog.Attr, 0, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		out = append(out, slog.Any(key, keysAndValues[i+1]))
	}
	return out
}
