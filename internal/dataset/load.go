package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Column names required in the dataset source.
const (
	colCompany               = "Company"
	colLocation              = "Location"
	colPanelCapacityKW       = "Panel_Capacity_kW"
	colPanelEfficiencyPct    = "Panel_Efficiency_Percent"
	colInverterEfficiencyPct = "Inverter_Efficiency_Percent"
	colTotalAnnualEnergyKWh  = "Total_Annual_Energy_kWh"
)

func monthColumn(month int) string {
	return fmt.Sprintf("Month_%d_Energy_kWh", month)
}

// LoadError is the typed failure for an unusable dataset source.
// No partial table is ever returned alongside it.
type LoadError struct {
	Source         string
	MissingColumns []string
	Row            int // 1-based data row, 0 when the failure is not row-specific
	Err            error
}

func (e *LoadError) Error() string {
	switch {
	case len(e.MissingColumns) > 0:
		return fmt.Sprintf("dataset %s: missing required columns: %s", e.Source, strings.Join(e.MissingColumns, ", "))
	case e.Row > 0:
		return fmt.Sprintf("dataset %s: row %d: %v", e.Source, e.Row, e.Err)
	default:
		return fmt.Sprintf("dataset %s: %v", e.Source, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the project dataset from a CSV file and derives all
// per-project features. The whole load fails with a *LoadError if the
// source is unreadable or any required column is absent.
func Load(path string, tariffs *Tariffs) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return load(f, path, tariffs)
}

// LoadFromReader reads the dataset from an arbitrary reader. The source
// name is used in error messages only.
func LoadFromReader(r io.Reader, source string, tariffs *Tariffs) (*Table, error) {
	return load(r, source, tariffs)
}

func load(r io.Reader, source string, tariffs *Tariffs) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	if missing := missingColumns(columns); len(missing) > 0 {
		return nil, &LoadError{Source: source, MissingColumns: missing}
	}

	var projects []ProjectRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Row: row, Err: err}
		}

		rec, err := parseRecord(fields, columns)
		if err != nil {
			return nil, &LoadError{Source: source, Row: row, Err: err}
		}

		derive(&rec, tariffs)
		projects = append(projects, rec)
	}

	return &Table{Projects: projects, LoadedAt: time.Now().UTC()}, nil
}

func missingColumns(columns map[string]int) []string {
	required := []string{
		colCompany, colLocation, colPanelCapacityKW,
		colPanelEfficiencyPct, colInverterEfficiencyPct, colTotalAnnualEnergyKWh,
	}
	for month := 1; month <= MonthsPerYear; month++ {
		required = append(required, monthColumn(month))
	}

	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func parseRecord(fields []string, columns map[string]int) (ProjectRecord, error) {
	get := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(fields) {
			return "", fmt.Errorf("column %s out of range", name)
		}
		return strings.TrimSpace(fields[idx]), nil
	}

	rec := ProjectRecord{}
	var err error

	if rec.Company, err = get(colCompany); err != nil {
		return rec, err
	}
	if rec.Location, err = get(colLocation); err != nil {
		return rec, err
	}
	if rec.PanelCapacityKW, err = getFloat(get, colPanelCapacityKW); err != nil {
		return rec, err
	}
	if rec.PanelEfficiencyPct, err = getFloat(get, colPanelEfficiencyPct); err != nil {
		return rec, err
	}
	if rec.InverterEfficiencyPct, err = getFloat(get, colInverterEfficiencyPct); err != nil {
		return rec, err
	}
	if rec.TotalAnnualEnergyKWh, err = getFloat(get, colTotalAnnualEnergyKWh); err != nil {
		return rec, err
	}
	for month := 1; month <= MonthsPerYear; month++ {
		if rec.MonthlyEnergyKWh[month-1], err = getFloat(get, monthColumn(month)); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

func getFloat(get func(string) (string, error), name string) (float64, error) {
	raw, err := get(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", name, raw)
	}
	return value, nil
}
