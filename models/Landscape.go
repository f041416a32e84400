package models

import (
	"gorm.io/datatypes"
)

// Landscape 地形记录，Data保存原始的verts/tri定义文档
type Landscape struct {
	BSM  string `gorm:"type:varchar(255);primary_key"`
	Name string `gorm:"type:varchar(255)"`
	MD5  string `gorm:"type:varchar(255)"`
	Data datatypes.JSON
	Date string `gorm:"type:varchar(255)"`
}

// ThrowRecord 抛掷记录
type ThrowRecord struct {
	BSM          string `gorm:"type:varchar(255);primary_key"`
	LandscapeBSM string `gorm:"type:varchar(255)"`
	X            float64
	Y            float64
	Z            float64
	Azim         float64
	Elev         float64
	Speed        float64
	NumBounce    int
	EndX         float64
	EndY         float64
	EndZ         float64
	Date         string `gorm:"type:varchar(255)"`
}
