package analytics

import (
	"sort"

	"pump-maintenance-backend/internal/model"
)

// EquipmentSeries is one equipment's temperature line. Values align with the
// chart labels; a date with no reading for this equipment is nil, not zero.
type EquipmentSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// TemperatureSeries is the per-equipment temperature chart payload.
type TemperatureSeries struct {
	Labels []string          `json:"labels"`
	Series []EquipmentSeries `json:"series"`
}

// CountBucket is one bar or pie slice of a histogram.
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// BuildTemperatureSeries turns temperature readings into a date-keyed chart.
// Labels are the distinct dates (YYYY-MM-DD) carrying at least one reading,
// ascending; series are ordered by equipment name. Logs must arrive with
// their equipment preloaded.
func BuildTemperatureSeries(logs []model.MaintenanceLog) TemperatureSeries {
	dates := make(map[string]bool)
	byEquipment := make(map[string]map[string]float64)

	for _, l := range logs {
		if l.PumpTemp == nil {
			continue
		}
		date := l.CheckDate.Format("2006-01-02")
		dates[date] = true

		name := l.Equipment.EquipmentName
		readings, ok := byEquipment[name]
		if !ok {
			readings = make(map[string]float64)
			byEquipment[name] = readings
		}
		readings[date] = *l.PumpTemp
	}

	labels := make([]string, 0, len(dates))
	for d := range dates {
		labels = append(labels, d)
	}
	sort.Strings(labels)

	names := make([]string, 0, len(byEquipment))
	for name := range byEquipment {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]EquipmentSeries, 0, len(names))
	for _, name := range names {
		values := make([]*float64, len(labels))
		for i, date := range labels {
			if v, ok := byEquipment[name][date]; ok {
				temp := v
				values[i] = &temp
			}
		}
		series = append(series, EquipmentSeries{Name: name, Values: values})
	}

	return TemperatureSeries{Labels: labels, Series: series}
}

// CountLogsByEquipment is the all-time per-equipment log histogram. Equipment
// without a single log is omitted, matching the join the chart was always
// built from.
func CountLogsByEquipment(equipment []model.Equipment, logs []model.MaintenanceLog) []CountBucket {
	names := make(map[int]string, len(equipment))
	for _, eq := range equipment {
		names[eq.EquipmentID] = eq.EquipmentName
	}
	counts := make(map[int]int64)
	for _, l := range logs {
		if _, ok := names[l.EquipmentID]; ok {
			counts[l.EquipmentID]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	buckets := make([]CountBucket, 0, len(ids))
	for _, id := range ids {
		buckets = append(buckets, CountBucket{Label: names[id], Count: counts[id]})
	}
	return buckets
}

// CountLogsByService is the all-time service-type histogram over the open
// service vocabulary; custom service text gets its own bucket.
func CountLogsByService(logs []model.MaintenanceLog) []CountBucket {
	counts := make(map[string]int64)
	for _, l := range logs {
		counts[l.Service]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	buckets := make([]CountBucket, 0, len(labels))
	for _, label := range labels {
		buckets = append(buckets, CountBucket{Label: label, Count: counts[label]})
	}
	return buckets
}
