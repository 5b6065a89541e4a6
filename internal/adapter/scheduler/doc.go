// Package scheduler запускает периодические задачи приложения по cron-расписанию
// (github.com/robfig/cron/v3). В sqlpager через него идут проверки здоровья
// открытых подключений.
//
// Возможности:
//   - стандартные расписания из пяти полей и дескрипторы ("@every 1m", "@hourly")
//   - политики перекрытия выполнений (Allow/Skip/Delay)
//   - таймаут и имя для каждой задачи
//   - восстановление после паники задачи
//   - хуки для наблюдаемости
//
// Пример:
//
//	s := scheduler.New(scheduler.Config{Logger: log})
//	_, err := s.AddJob("@every 1m", checkConnections, scheduler.JobOptions{
//		Name:          "connection-health",
//		Timeout:       10 * time.Second,
//		OverlapPolicy: scheduler.SkipIfRunning,
//	})
//	s.Start()
//	defer s.Stop(context.Background())
package scheduler
