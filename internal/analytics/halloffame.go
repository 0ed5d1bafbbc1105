package analytics

import (
	"math"
	"sort"
	"strings"

	"pump-maintenance-backend/internal/model"
)

// HallOfFameEntry is one owner's row in the maintenance-diligence ranking.
type HallOfFameEntry struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	EquipmentOwned int     `json:"equipment_owned"`
	WeeksActive    int     `json:"weeks_active"`
}

// ComputeHallOfFame ranks pump owners by how well their own fleet is kept,
// normalized by fleet size so a one-pump owner competes fairly with a
// ten-pump owner.
//
// For each owner, logs performed under that owner's name against eligible
// equipment are grouped by work week; each week contributes
// (distinct equipment touched) * 10 / (equipment owned). A second log on the
// same equipment in the same week never double counts. Owners of eligible
// equipment always appear, even with zero activity.
func ComputeHallOfFame(equipment []model.Equipment, logs []model.MaintenanceLog) []HallOfFameEntry {
	eligible := FilterEligible(equipment)

	eligibleIDs := make(map[int]bool, len(eligible))
	owned := make(map[string]int)
	for _, eq := range eligible {
		eligibleIDs[eq.EquipmentID] = true
		if owner := strings.TrimSpace(eq.PumpOwner); owner != "" {
			owned[eq.PumpOwner]++
		}
	}

	// owner -> work week -> distinct equipment touched that week
	touched := make(map[string]map[string]map[int]bool)
	for _, l := range logs {
		if !eligibleIDs[l.EquipmentID] {
			continue
		}
		ownedCount, isOwner := owned[l.UserName]
		if !isOwner || ownedCount == 0 {
			continue
		}
		weeks, ok := touched[l.UserName]
		if !ok {
			weeks = make(map[string]map[int]bool)
			touched[l.UserName] = weeks
		}
		ids, ok := weeks[l.WorkWeek]
		if !ok {
			ids = make(map[int]bool)
			weeks[l.WorkWeek] = ids
		}
		ids[l.EquipmentID] = true
	}

	entries := make([]HallOfFameEntry, 0, len(owned))
	for owner, ownedCount := range owned {
		var total float64
		weeks := touched[owner]
		for _, ids := range weeks {
			total += float64(len(ids)) * 10 / float64(ownedCount)
		}
		entries = append(entries, HallOfFameEntry{
			Name:           owner,
			Score:          math.Round(total*10) / 10,
			EquipmentOwned: ownedCount,
			WeeksActive:    len(weeks),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
