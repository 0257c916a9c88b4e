// Package selector models the school picker of the public submission form:
// department, then locality, then school name.
package selector

import (
	"errors"
	"strings"

	"github.com/sujalbistaa/secretos/internal/models"
)

var (
	ErrUnknownOption = errors.New("option not available")
	ErrNoParent      = errors.New("upper level not selected")
)

// Level identifies one step of the cascade.
type Level int

const (
	LevelDepartment Level = iota
	LevelLocality
	LevelName
)

// Cascade holds the current selection. Option sets are always derived from
// the immutable school list and the selection above them.
type Cascade struct {
	schools     []models.School
	departments []string

	department string
	locality   string
	schoolID   uint
}

// New filters schools to the allowed departments (case-insensitive; an empty
// allow-list keeps everything). A single remaining department is selected
// up front.
func New(schools []models.School, allowed []string) *Cascade {
	allow := make(map[string]bool, len(allowed))
	for _, d := range allowed {
		allow[strings.ToUpper(strings.TrimSpace(d))] = true
	}

	c := &Cascade{}
	seen := make(map[string]bool)
	for _, s := range schools {
		if len(allow) > 0 && !allow[strings.ToUpper(strings.TrimSpace(s.Department))] {
			continue
		}
		c.schools = append(c.schools, s)
		if !seen[s.Department] {
			seen[s.Department] = true
			c.departments = append(c.departments, s.Department)
		}
	}

	if len(c.departments) == 1 {
		c.department = c.departments[0]
	}
	return c
}

// DepartmentHidden reports whether the department step is skipped.
func (c *Cascade) DepartmentHidden() bool { return len(c.departments) == 1 }

func (c *Cascade) Departments() []string {
	return append([]string(nil), c.departments...)
}

// Localities lists the localities of the selected department, unique in
// first-seen order.
func (c *Cascade) Localities() []string {
	if c.department == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, s := range c.schools {
		if s.Department != c.department || seen[s.Locality] {
			continue
		}
		seen[s.Locality] = true
		out = append(out, s.Locality)
	}
	return out
}

// Names lists the schools of the selected locality.
func (c *Cascade) Names() []models.School {
	if c.department == "" || c.locality == "" {
		return nil
	}
	var out []models.School
	for _, s := range c.schools {
		if s.Department == c.department && s.Locality == c.locality {
			out = append(out, s)
		}
	}
	return out
}

// SelectDepartment resets locality and name.
func (c *Cascade) SelectDepartment(department string) error {
	if !contains(c.departments, department) {
		return ErrUnknownOption
	}
	c.department = department
	c.locality = ""
	c.schoolID = 0
	return nil
}

// SelectLocality resets the school name.
func (c *Cascade) SelectLocality(locality string) error {
	if c.department == "" {
		return ErrNoParent
	}
	if !contains(c.Localities(), locality) {
		return ErrUnknownOption
	}
	c.locality = locality
	c.schoolID = 0
	return nil
}

// SelectName resolves the concrete school.
func (c *Cascade) SelectName(schoolID uint) error {
	if c.locality == "" {
		return ErrNoParent
	}
	for _, s := range c.Names() {
		if s.ID == schoolID {
			c.schoolID = schoolID
			return nil
		}
	}
	return ErrUnknownOption
}

// Selected returns the value chosen at each level.
func (c *Cascade) Selected() (department, locality string, schoolID uint) {
	return c.department, c.locality, c.schoolID
}

// School returns the resolved school, if any.
func (c *Cascade) School() (models.School, bool) {
	if c.schoolID == 0 {
		return models.School{}, false
	}
	for _, s := range c.schools {
		if s.ID == c.schoolID {
			return s, true
		}
	}
	return models.School{}, false
}

// Apply replays a selection top-down, stopping at the first value that is
// empty or no longer valid. Used to rebuild the state from a query string.
func (c *Cascade) Apply(department, locality string, schoolID uint) {
	if department != "" && !c.DepartmentHidden() {
		if c.SelectDepartment(department) != nil {
			return
		}
	}
	if locality == "" || c.SelectLocality(locality) != nil {
		return
	}
	if schoolID != 0 {
		_ = c.SelectName(schoolID)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
