// Package sqlite предоставляет инфраструктурные компоненты для работы с SQLite
// (драйвер modernc.org/sqlite, без cgo).
//
// Основные возможности:
// - Открытие БД по строке подключения провайдера (путь, ":memory:" или DSN)
// - PRAGMA настройки и параметры пула соединений
// - Миграции через golang-migrate
// - Тестовые хелперы
//
// # Быстрый старт
//
//	db, err := sqlite.Open(ctx, "data/reports.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
// Версия движка (для диагностики, постраничная выборка SQLite её не требует):
//
//	v, err := sqlite.Version(ctx, db)
//
// # Миграции
//
//	err = sqlite.ApplyMigrations("data/reports.db", "migrations/sqlite")
//
// # Тестирование
//
//	func TestSomething(t *testing.T) {
//		testDB := sqlite.NewTestDBInMemory(t)
//		testDB.SeedNumbers(t, "items", 25)
//	}
package sqlite
