// Package catalog loads the option lists shown by the forms.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Option is a selectable entry with a stable id.
type Option struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Catalog struct {
	Supervisors      []Option `yaml:"supervisors" json:"supervisors"`
	Teams            []Option `yaml:"teams" json:"teams"`
	Machinery        []Option `yaml:"machinery" json:"machinery"`
	Areas            []string `yaml:"areas" json:"areas"`
	UnionCouncils    []string `yaml:"union_councils" json:"union_councils"`
	NAConstituencies []string `yaml:"na_constituencies" json:"na_constituencies"`
	TaskTypes        []string `yaml:"task_types" json:"task_types"`
	TaskStatuses     []string `yaml:"task_statuses" json:"task_statuses"`
	TaskCategories   []string `yaml:"task_categories" json:"task_categories"`
	Priorities       []string `yaml:"priorities" json:"priorities"`
	WorkStatuses     []string `yaml:"work_statuses" json:"work_statuses"`
}

// Load reads the catalog at path, or the built-in one when path is empty.
// Spreadsheets go through LoadSheet.
func Load(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return LoadSheet(path)
	}
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Teams) == 0 || len(c.TaskCategories) == 0 {
		return nil, fmt.Errorf("parse catalog: teams and task_categories must not be empty")
	}
	return &c, nil
}

// Default is the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) TeamName(id string) string       { return name(c.Teams, id) }
func (c *Catalog) SupervisorName(id string) string { return name(c.Supervisors, id) }
func (c *Catalog) MachineryName(id string) string  { return name(c.Machinery, id) }

// IsWorkStatus reports whether s is a status an End report may use.
func (c *Catalog) IsWorkStatus(s string) bool { return slices.Contains(c.WorkStatuses, s) }

func name(opts []Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Name
		}
	}
	return ""
}
