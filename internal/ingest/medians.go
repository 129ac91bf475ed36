package ingest

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/housing-cli/internal/model"
)

// medianColumns are the required workbook columns, matched by header
// name so the notebook can reorder them without breaking the import.
var medianColumns = []string{
	"name",
	"longitude",
	"latitude",
	"total_rooms",
	"total_bedrooms",
	"population",
	"households",
	"ocean_proximity",
	"rooms_per_household",
	"bedrooms_per_rooms",
	"population_per_household",
}

// ParseMedians reads the per-county median workbook exported by the
// offline pipeline. The first row is the header.
func ParseMedians(path string) ([]model.CountySummary, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open medians workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: medians workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.New("ingest: medians workbook has no data rows")
	}

	colIdx, err := headerIndex(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	var counties []model.CountySummary
	for rowNum, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if isBlank(cells) {
			continue
		}

		c, err := parseMedianRow(cells, colIdx)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: medians row %d", rowNum+2)
		}
		counties = append(counties, *c)
	}

	if len(counties) == 0 {
		return nil, eris.New("ingest: medians workbook yielded no counties")
	}
	return counties, nil
}

func headerIndex(header *xlsx.Row) (map[string]int, error) {
	cells := rowToStrings(header)
	idx := make(map[string]int, len(cells))
	for i, cell := range cells {
		idx[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, col := range medianColumns {
		if _, ok := idx[col]; !ok {
			return nil, eris.Errorf("ingest: medians workbook missing column %q", col)
		}
	}
	return idx, nil
}

func parseMedianRow(cells []string, colIdx map[string]int) (*model.CountySummary, error) {
	get := func(col string) string {
		i := colIdx[col]
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	num := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(get(col), 64)
		if err != nil {
			return 0, eris.Wrapf(err, "parse %s", col)
		}
		return v, nil
	}

	name := get("name")
	if name == "" {
		return nil, eris.New("empty county name")
	}

	c := model.CountySummary{Name: name, OceanProximity: get("ocean_proximity")}
	if c.OceanProximity == "" {
		return nil, eris.Errorf("county %s: empty ocean_proximity", name)
	}

	var err error
	for col, dst := range map[string]*float64{
		"longitude":                &c.Longitude,
		"latitude":                 &c.Latitude,
		"total_rooms":              &c.TotalRooms,
		"total_bedrooms":           &c.TotalBedrooms,
		"population":               &c.Population,
		"households":               &c.Households,
		"rooms_per_household":      &c.RoomsPerHousehold,
		"bedrooms_per_rooms":       &c.BedroomsPerRooms,
		"population_per_household": &c.PopulationPerHousehold,
	} {
		if *dst, err = num(col); err != nil {
			return nil, eris.Wrapf(err, "county %s", name)
		}
	}

	return &c, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
