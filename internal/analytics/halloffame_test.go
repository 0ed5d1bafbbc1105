package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-maintenance-backend/internal/model"
)

func eq(id int, name, owner string) model.Equipment {
	return model.Equipment{EquipmentID: id, EquipmentName: name, PumpOwner: owner, Status: "active"}
}

func logBy(equipmentID int, week, user string) model.MaintenanceLog {
	return model.MaintenanceLog{
		EquipmentID: equipmentID,
		WorkWeek:    week,
		CheckDate:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		UserName:    user,
		Service:     model.ServiceNoneRequired,
	}
}

func TestComputeHallOfFame_WeeklyNormalization(t *testing.T) {
	// Kim owns two pumps; one week touches both, another touches one.
	equipment := []model.Equipment{
		eq(1, "Pump A", "Kim"),
		eq(2, "Pump B", "Kim"),
	}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Kim"),
		logBy(2, "2025-WW14", "Kim"),
		logBy(1, "2025-WW15", "Kim"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kim", entries[0].Name)
	assert.Equal(t, 15.0, entries[0].Score) // 2*10/2 + 1*10/2
	assert.Equal(t, 2, entries[0].EquipmentOwned)
	assert.Equal(t, 2, entries[0].WeeksActive)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestComputeHallOfFame_SameEquipmentTwiceInWeekCountsOnce(t *testing.T) {
	equipment := []model.Equipment{eq(1, "Pump A", "Sam")}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Sam"),
		logBy(1, "2025-WW14", "Sam"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, 10.0, entries[0].Score)
	assert.Equal(t, 1, entries[0].WeeksActive)
}

func TestComputeHallOfFame_IdleOwnerStillAppears(t *testing.T) {
	equipment := []model.Equipment{
		eq(1, "Pump A", "Sam"),
		eq(2, "Pump B", "Lee"),
	}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Sam"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 2)
	assert.Equal(t, "Sam", entries[0].Name)
	assert.Equal(t, "Lee", entries[1].Name)
	assert.Equal(t, 0.0, entries[1].Score)
	assert.Equal(t, 0, entries[1].WeeksActive)
	assert.Equal(t, 1, entries[1].EquipmentOwned)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestComputeHallOfFame_IneligibleEquipmentExcluded(t *testing.T) {
	scroll := eq(2, "Dry Pump", "Sam")
	scroll.OilType = "Scroll pump"
	equipment := []model.Equipment{
		eq(1, "Pump A", "Sam"),
		scroll,                       // not counted as owned, its logs ignored
		eq(3, "Spare Unit 3", "Sam"), // likewise
	}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Sam"),
		logBy(2, "2025-WW14", "Sam"),
		logBy(3, "2025-WW14", "Sam"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].EquipmentOwned)
	assert.Equal(t, 10.0, entries[0].Score) // 1 distinct eligible pump * 10 / 1 owned
}

func TestComputeHallOfFame_LogsByNonOwnersIgnored(t *testing.T) {
	// A check logged under a name that owns nothing drives no score.
	equipment := []model.Equipment{eq(1, "Pump A", "Sam")}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Visitor"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sam", entries[0].Name)
	assert.Equal(t, 0.0, entries[0].Score)
}

func TestComputeHallOfFame_BlankOwnersSkipped(t *testing.T) {
	equipment := []model.Equipment{
		eq(1, "Pump A", ""),
		eq(2, "Pump B", "   "),
		eq(3, "Pump C", "Lee"),
	}

	entries := ComputeHallOfFame(equipment, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "Lee", entries[0].Name)
}

func TestComputeHallOfFame_TiesBreakByNameAscending(t *testing.T) {
	equipment := []model.Equipment{
		eq(1, "Pump A", "Zoe"),
		eq(2, "Pump B", "Amy"),
	}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Zoe"),
		logBy(2, "2025-WW14", "Amy"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"Amy", "Zoe"}, []string{entries[0].Name, entries[1].Name})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestComputeHallOfFame_ScoreRounding(t *testing.T) {
	// Three pumps owned, one touched in one week: 10/3 = 3.333... -> 3.3
	equipment := []model.Equipment{
		eq(1, "Pump A", "Kim"),
		eq(2, "Pump B", "Kim"),
		eq(3, "Pump C", "Kim"),
	}
	logs := []model.MaintenanceLog{
		logBy(1, "2025-WW14", "Kim"),
	}

	entries := ComputeHallOfFame(equipment, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, 3.3, entries[0].Score)
}
