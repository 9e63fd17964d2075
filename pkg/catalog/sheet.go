package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Rosters are often kept in a spreadsheet. A sheet catalog has one row per
// option with the columns list, id and name; lists without ids (areas, task
// types, ...) leave id empty.
//
//	list,id,name
//	teams,1,Pipeline Maintenance Crew
//	areas,,Residential

// LoadSheet reads a catalog from an .xlsx workbook (first sheet) or a .csv
// file.
func LoadSheet(path string) (*Catalog, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		x, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog sheet: %w", err)
		}
		defer x.Close()
		rows, err = x.GetRows(x.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("read catalog sheet: %w", err)
		}
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog sheet: %w", err)
		}
		defer f.Close()
		rows, err = readCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read catalog sheet: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog sheet %s: want .xlsx or .csv", path)
	}
	return fromRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// norm folds header spellings: "List Name", "list_name" and "LIST-NAME" match.
func norm(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func fromRows(rows [][]string) (*Catalog, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse catalog sheet: empty")
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		col[norm(h)] = i
	}
	find := func(keys ...string) int {
		for _, k := range keys {
			if i, ok := col[k]; ok {
				return i
			}
		}
		return -1
	}
	iList, iID, iName := find("list", "listname", "category"), find("id", "optionid"), find("name", "value", "label")
	if iList < 0 || iName < 0 {
		return nil, fmt.Errorf("parse catalog sheet: need list and name columns")
	}
	cell := func(r []string, i int) string {
		if i < 0 || i >= len(r) {
			return ""
		}
		return strings.TrimSpace(r[i])
	}

	var c Catalog
	options := map[string]*[]Option{
		"supervisors": &c.Supervisors,
		"teams":       &c.Teams,
		"machinery":   &c.Machinery,
	}
	values := map[string]*[]string{
		"areas":            &c.Areas,
		"unioncouncils":    &c.UnionCouncils,
		"naconstituencies": &c.NAConstituencies,
		"tasktypes":        &c.TaskTypes,
		"taskstatuses":     &c.TaskStatuses,
		"taskcategories":   &c.TaskCategories,
		"priorities":       &c.Priorities,
		"workstatuses":     &c.WorkStatuses,
	}
	for n, r := range rows[1:] {
		list, name := norm(cell(r, iList)), cell(r, iName)
		if list == "" && name == "" {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("parse catalog sheet: row %d has no name", n+2)
		}
		if dst, ok := options[list]; ok {
			*dst = append(*dst, Option{ID: cell(r, iID), Name: name})
		} else if dst, ok := values[list]; ok {
			*dst = append(*dst, name)
		} else {
			return nil, fmt.Errorf("parse catalog sheet: row %d: unknown list %q", n+2, cell(r, iList))
		}
	}
	if len(c.Teams) == 0 || len(c.TaskCategories) == 0 {
		return nil, fmt.Errorf("parse catalog sheet: teams and task_categories must not be empty")
	}
	return &c, nil
}
