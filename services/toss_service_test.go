package services

import (
	"math"
	"testing"

	"github.com/GrainArc/TossMap/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// 内存库只能用单个连接，否则连接池里的新连接各自是空库
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&models.Landscape{}, &models.ThrowRecord{}); err != nil {
		t.Fatal(err)
	}
	models.DB = db
}

const flatDoc = `{"verts":[[-50,-50,0],[50,-50,0],[50,50,0],[-50,50,0]],"tri":[[0,1,2],[0,2,3]]}`

func TestAddLandscapeDedup(t *testing.T) {
	setupTestDB(t)
	s := NewTossService()

	rec, err := s.AddLandscape("flat", []byte(flatDoc))
	if err != nil {
		t.Fatal(err)
	}
	// 相同文档再次入库应复用记录
	rec2, err := s.AddLandscape("flat again", []byte(flatDoc))
	if err != nil {
		t.Fatal(err)
	}
	if rec2.BSM != rec.BSM {
		t.Errorf("duplicate document got new BSM: %s vs %s", rec2.BSM, rec.BSM)
	}

	list, err := s.ListLandscapes()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("landscape count = %d, want 1", len(list))
	}
}

func TestAddLandscapeInvalid(t *testing.T) {
	setupTestDB(t)
	s := NewTossService()

	if _, err := s.AddLandscape("bad", []byte(`{"verts":[],"tri":[]}`)); err == nil {
		t.Error("expected error for empty mesh")
	}
	if _, err := s.AddLandscape("bad", []byte(`not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestRunThrowAndRecords(t *testing.T) {
	setupTestDB(t)
	s := NewTossService()

	rec, err := s.AddLandscape("flat", []byte(flatDoc))
	if err != nil {
		t.Fatal(err)
	}

	z := 10.0
	throwRec, err := s.RunThrow(rec.BSM, 0.5, 0.25, &z, 45, 89.999, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(throwRec.EndX-0.5) > 0.001 || math.Abs(throwRec.EndY-0.25) > 0.001 {
		t.Errorf("landing = (%v, %v), want (0.5, 0.25)", throwRec.EndX, throwRec.EndY)
	}
	if math.Abs(throwRec.EndZ) > 0.001 {
		t.Errorf("landing z = %v, want 0", throwRec.EndZ)
	}

	records, err := s.ThrowRecords(rec.BSM)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("record count = %d, want 1", len(records))
	}

	// 删除地形连带删除记录
	if err := s.DelLandscape(rec.BSM); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLandscape(rec.BSM); err == nil {
		t.Error("expected error after deletion")
	}
	records, _ = s.ThrowRecords(rec.BSM)
	if len(records) != 0 {
		t.Errorf("records not deleted with landscape: %d left", len(records))
	}
}

func TestRunThrowPlacementErrors(t *testing.T) {
	setupTestDB(t)
	s := NewTossService()

	rec, err := s.AddLandscape("flat", []byte(flatDoc))
	if err != nil {
		t.Fatal(err)
	}

	// 起点在地形外
	if _, err := s.RunThrow(rec.BSM, 1000, 1000, nil, 45, 45, 10, 1); err == nil {
		t.Error("expected error for start outside landscape")
	}
	// 起点在地形下
	z := -5.0
	if _, err := s.RunThrow(rec.BSM, 0.5, 0.25, &z, 45, 45, 10, 1); err == nil {
		t.Error("expected error for start below landscape")
	}
	// 非法参数
	if _, err := s.RunThrow(rec.BSM, 0.5, 0.25, nil, 0, 45, 10, 1); err == nil {
		t.Error("expected error for azimuth out of range")
	}
}
