package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yockii/docdraft/pkg/config"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "missing.yaml")))
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestAutoMigrateSqlite(t *testing.T) {
	db := openTestDB(t)
	config.Set("database.type", "sqlite")

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&ExportRecord{}))
}

func TestAutoMigrateUnsupported(t *testing.T) {
	db := openTestDB(t)
	config.Set("database.type", "oracle")
	t.Cleanup(func() { config.Set("database.type", "sqlite") })

	assert.ErrorContains(t, AutoMigrate(db), "unsupported database type")
}

func TestExportRecordBeforeCreate(t *testing.T) {
	db := openTestDB(t)
	config.Set("database.type", "sqlite")
	require.NoError(t, AutoMigrate(db))

	r := &ExportRecord{DocumentType: "Kế hoạch", FileName: "ke_hoach.docx", Size: 10}
	require.NoError(t, db.Create(r).Error)
	assert.NotZero(t, r.ID)
	assert.Len(t, r.RequestID, 36)

	kept := &ExportRecord{BaseModel: BaseModel{ID: 42}, RequestID: "req-1", FileName: "x.docx"}
	require.NoError(t, db.Create(kept).Error)
	assert.Equal(t, uint64(42), kept.ID)
	assert.Equal(t, "req-1", kept.RequestID)

	var got ExportRecord
	require.NoError(t, db.First(&got, r.ID).Error)
	assert.Equal(t, "Kế hoạch", got.DocumentType)
}
