package analytics

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
	"pump-maintenance-backend/internal/workweek"
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

func seedAlertFixture(t *testing.T, s store.Store, now time.Time) {
	t.Helper()
	ctx := context.Background()

	pumps := []model.Equipment{
		{EquipmentID: 1, EquipmentName: "GCMS", OilType: "Mineral 15W", PumpOwner: "Sam"},
		{EquipmentID: 2, EquipmentName: "Jupiter", OilType: "Synthetic 20W", PumpOwner: "Lee"},
		{EquipmentID: 3, EquipmentName: "Olympus", OilType: "Mineral 10W", PumpOwner: "Lee"},
	}
	for i := range pumps {
		require.NoError(t, s.CreateEquipment(ctx, &pumps[i]))
	}

	day := func(daysAgo int) time.Time {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	}
	temp := func(v float64) *float64 { return &v }

	logs := []model.MaintenanceLog{
		// Oil alert boundary: exactly 14 days ago is in, 15 is out.
		{EquipmentID: 1, WorkWeek: workweek.Label(day(14)), CheckDate: day(14), Service: "Add Oil"},
		{EquipmentID: 2, WorkWeek: workweek.Label(day(15)), CheckDate: day(15), Service: "Drain & Replace Oil"},
		// High-temp boundary: 80.0 alerts, 79.9 does not.
		{EquipmentID: 2, WorkWeek: workweek.Label(day(3)), CheckDate: day(3), Service: model.ServiceNoneRequired, PumpTemp: temp(80.0)},
		{EquipmentID: 3, WorkWeek: workweek.Label(day(3)), CheckDate: day(3), Service: model.ServiceNoneRequired, PumpTemp: temp(79.9)},
	}
	require.NoError(t, s.DB().Create(&logs).Error)
}

func TestEngineDashboard(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2025, time.April, 16, 10, 30, 0, 0, time.UTC)
	seedAlertFixture(t, s, now)

	dash, err := NewEngine(s).Dashboard(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, workweek.Label(now), dash.WorkWeek)

	require.Len(t, dash.NeedsOil, 1, "the 15-day-old oil service is outside the window")
	assert.Equal(t, 1, dash.NeedsOil[0].EquipmentID)

	require.Len(t, dash.HighTemp, 1, "79.9 is below the inclusive threshold")
	assert.Equal(t, 2, dash.HighTemp[0].EquipmentID)

	// Equipment 2 and 3 were checked 3 days ago; equipment 1 was not.
	assert.InDelta(t, 100.0*2/3, dash.MaintenanceRate, 1e-9)
}

func TestEngineDashboard_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	dash, err := NewEngine(s).Dashboard(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Empty(t, dash.NeedsOil)
	assert.Empty(t, dash.HighTemp)
	assert.Equal(t, 0.0, dash.MaintenanceRate, "no equipment means 0, not NaN")
}

func TestEngineChartData(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2025, time.April, 16, 10, 30, 0, 0, time.UTC)
	seedAlertFixture(t, s, now)

	charts, err := NewEngine(s).ChartData(context.Background(), now)
	require.NoError(t, err)

	// Only the two logs with readings contribute dates.
	assert.Len(t, charts.Temperature.Labels, 1)
	assert.Len(t, charts.Temperature.Series, 2)
	for _, series := range charts.Temperature.Series {
		assert.Len(t, series.Values, len(charts.Temperature.Labels))
	}

	assert.NotEmpty(t, charts.EquipmentCounts)
	assert.NotEmpty(t, charts.ServiceHistogram)
	assert.NotEmpty(t, charts.HallOfFame)
}

func TestEngineHallOfFame_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pump := model.Equipment{EquipmentID: 1, EquipmentName: "Elyte GB", PumpOwner: "Sam"}
	require.NoError(t, s.CreateEquipment(ctx, &pump))

	// Two checks on the same pump in the same week by its owner.
	checkDate := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	logs := []model.MaintenanceLog{
		{EquipmentID: 1, WorkWeek: "2025-WW14", CheckDate: checkDate, UserName: "Sam", Service: model.ServiceNoneRequired},
		{EquipmentID: 1, WorkWeek: "2025-WW14", CheckDate: checkDate.AddDate(0, 0, 1), UserName: "Sam", Service: "Add Oil"},
	}
	require.NoError(t, s.DB().Create(&logs).Error)

	entries, err := NewEngine(s).HallOfFame(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10.0, entries[0].Score, "same pump twice in one week counts once")
	assert.Equal(t, 1, entries[0].WeeksActive)
	assert.Equal(t, 1, entries[0].EquipmentOwned)
}
