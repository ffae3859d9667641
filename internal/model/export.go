package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yockii/docdraft/pkg/util"
)

// ExportRecord 文档导出记录，不保存正文内容
type ExportRecord struct {
	BaseModel
	RequestID    string `json:"requestId" gorm:"type:varchar(36);uniqueIndex;not null"`
	DocumentType string `json:"documentType" gorm:"type:varchar(200);index"`
	UnitName     string `json:"unitName" gorm:"type:varchar(200)"`
	FileName     string `json:"fileName" gorm:"type:varchar(255);not null"`
	Size         int64  `json:"size"`
	BlockCount   int    `json:"blockCount"`
}

func (r *ExportRecord) TableComment() string {
	return "导出记录表"
}

// BeforeCreate 创建前钩子
func (r *ExportRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == 0 {
		r.ID = util.NewID()
	}
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return nil
}

func init() {
	models = append(models, &ExportRecord{})
}
