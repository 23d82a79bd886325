package store

import (
	"gorm.io/gorm"
)

// CountryModel 国家文档
//
// Data is kept as text rather than jsonb, jsonb would reorder the keys.
type CountryModel struct {
	gorm.Model
	CommonName string `gorm:"uniqueIndex;not null"`
	Data       string `gorm:"type:text;not null"`
}

func (CountryModel) TableName() string { return "countries" }

// TaskModel 比较任务
type TaskModel struct {
	gorm.Model
	TaskID   string  `gorm:"uniqueIndex;not null"`
	Status   string  `gorm:"index;not null"`
	CountryA string  `gorm:"not null"`
	CountryB string  `gorm:"not null"`
	Result   *string `gorm:"type:text"`
	Error    string  `gorm:"type:text"`
}

func (TaskModel) TableName() string { return "tasks" }
