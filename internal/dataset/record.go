// Package dataset loads the solar project dataset and derives the
// per-project features used by the recommendation engine. Records are
// derived exactly once at load time and immutable afterward.
package dataset

import (
	"sync/atomic"
	"time"
)

// MonthsPerYear is the length of every monthly series in the dataset.
const MonthsPerYear = 12

// ProjectRecord is one candidate generation project with its raw fields
// and the features derived at load time.
type ProjectRecord struct {
	Company               string
	Location              string
	PanelCapacityKW       float64
	PanelEfficiencyPct    float64
	InverterEfficiencyPct float64
	MonthlyEnergyKWh      [MonthsPerYear]float64
	TotalAnnualEnergyKWh  float64

	// Derived at load time.
	SummerGenerationKWh float64
	WinterGenerationKWh float64
	GenerationVariance  float64
	EnergySaleRate      float64
	BaseCostPerKW       float64
	SizeFactor          float64
	EfficiencyFactor    float64
	CostPerKW           float64
	TotalCost           float64
	AnnualRevenue       float64
	ROIPct              float64
}

// Key identifies a project across the API and the holdings ledger.
func (r *ProjectRecord) Key() string {
	return r.Company + "/" + r.Location
}

// Table is an immutable set of derived project records.
type Table struct {
	Projects []ProjectRecord
	LoadedAt time.Time
}

// FindByKey returns the record with the given key, or nil.
func (t *Table) FindByKey(key string) *ProjectRecord {
	for i := range t.Projects {
		if t.Projects[i].Key() == key {
			return &t.Projects[i]
		}
	}
	return nil
}

// Snapshot holds the current table reference. Reloads swap the whole
// table atomically so in-flight scoring requests keep a consistent view.
type Snapshot struct {
	table atomic.Pointer[Table]
}

// NewSnapshot creates a snapshot holding the given table.
func NewSnapshot(table *Table) *Snapshot {
	s := &Snapshot{}
	s.table.Store(table)
	return s
}

// Current returns the table reference as of this call.
func (s *Snapshot) Current() *Table {
	return s.table.Load()
}

// Swap replaces the table reference.
func (s *Snapshot) Swap(table *Table) {
	s.table.Store(table)
}
