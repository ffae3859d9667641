package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/logger"
)

type Model interface {
	TableComment() string
	GetID() uint64
}

type BaseModel struct {
	ID        uint64    `json:"id,string" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"createdAt,omitzero" gorm:"not null"`
}

func (b *BaseModel) TableComment() string {
	return "基础模型"
}

func (b *BaseModel) GetID() uint64 {
	return b.ID
}

var models []Model

func AutoMigrate(db *gorm.DB) error {
	switch dt := config.GetString("database.type"); dt {
	case "mysql":
		migrator := db.Migrator()
		for _, m := range models {
			if !migrator.HasTable(m) {
				if err := db.Set("gorm:table_options", fmt.Sprintf("ENGINE=innoDB DEFAULT CHARSET=utf8mb4 COMMENT='%s';", m.TableComment())).AutoMigrate(m); err != nil {
					logger.Error("自动迁移表失败", logger.F("error", err))
					return err
				}
			} else if err := migrator.AutoMigrate(m); err != nil {
				logger.Error("自动迁移表失败", logger.F("error", err))
				return err
			}
		}
	case "postgres", "sqlite":
		var mList []interface{}
		for _, m := range models {
			mList = append(mList, m)
		}
		if err := db.AutoMigrate(mList...); err != nil {
			logger.Error("自动迁移表失败", logger.F("error", err))
			return err
		}
		if dt != "postgres" {
			return nil
		}
		// 添加表注释
		for _, m := range models {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				logger.Error("解析模型失败", logger.F("error", err))
				continue
			}
			if err := db.Exec(fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", stmt.Table, m.TableComment())).Error; err != nil {
				logger.Error("添加表注释失败", logger.F("error", err))
			}
		}
	default:
		logger.Error("不支持的数据库类型", logger.F("type", dt))
		return fmt.Errorf("unsupported database type: %s", dt)
	}
	return nil
}
