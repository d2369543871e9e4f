package database

import (
	"testing"

	"gorm.io/gorm/logger"
)

type sampleRow struct {
	ID   int64
	Name string
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(Options{Driver: "sqlite", DSN: ":memory:", LogLevel: logger.Silent}, &sampleRow{})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}

	if !db.Migrator().HasTable(&sampleRow{}) {
		t.Error("应自动建表")
	}
	if err := db.Create(&sampleRow{Name: "x"}).Error; err != nil {
		t.Errorf("写入失败: %v", err)
	}
}

func TestInitDB_UnknownDriver(t *testing.T) {
	if _, err := InitDB(Options{Driver: "oracle"}); err == nil {
		t.Error("未知驱动应返回错误")
	}
}
