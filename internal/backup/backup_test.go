package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Equipment{}, &model.MaintenanceLog{}))
	return store.NewGormStore(db)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	dir := t.TempDir()

	temp := 72.5
	eq := model.Equipment{EquipmentID: 1, EquipmentName: "GCMS", OilType: "Mineral 15W", PumpOwner: "Analytics"}
	require.NoError(t, s.CreateEquipment(ctx, &eq))
	log := model.MaintenanceLog{
		EquipmentID: 1,
		WorkWeek:    "2025-WW14",
		CheckDate:   time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
		UserName:    "Sam",
		OilLevelOK:  true,
		PumpTemp:    &temp,
		Service:     "Add Oil",
	}
	require.NoError(t, s.DB().Create(&log).Error)

	result, err := Create(ctx, s, dir, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 1, result.EquipmentCount)
	assert.Equal(t, 1, result.LogsCount)
	assert.FileExists(t, result.File)

	// The snapshot has the documented shape.
	data, err := os.ReadFile(result.File)
	require.NoError(t, err)
	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, "sqlite", snapshot.Metadata.DatabaseDriver)
	require.Len(t, snapshot.Tables.MaintenanceLogs, 1)
	assert.Equal(t, "2025-04-02", snapshot.Tables.MaintenanceLogs[0].CheckDate)

	// Mutate the database, then restore the snapshot over it.
	other := model.Equipment{EquipmentID: 2, EquipmentName: "Jupiter"}
	require.NoError(t, s.CreateEquipment(ctx, &other))

	restored, err := Restore(ctx, s, result.File)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.EquipmentCount)
	assert.Equal(t, 1, restored.LogsCount)

	equipment, err := s.ListEquipment(ctx)
	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, "GCMS", equipment[0].EquipmentName)

	logs, err := s.ListLogs(ctx, store.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].PumpTemp)
	assert.Equal(t, 72.5, *logs[0].PumpTemp)
	assert.Equal(t, "2025-04-02", logs[0].CheckDate.Format("2006-01-02"))
}

func TestRestore_InvalidStructureLeavesDataUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	eq := model.Equipment{EquipmentID: 1, EquipmentName: "GCMS"}
	require.NoError(t, s.CreateEquipment(ctx, &eq))

	file := filepath.Join(t.TempDir(), "bogus.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"unrelated": true}`), 0o644))

	_, err := Restore(ctx, s, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backup file format")

	equipment, err := s.ListEquipment(ctx)
	require.NoError(t, err)
	assert.Len(t, equipment, 1, "failed restore must not clear existing data")
}

func TestRestore_MissingFile(t *testing.T) {
	_, err := Restore(context.Background(), newTestStore(t), "/does/not/exist.json")
	assert.Error(t, err)
}
