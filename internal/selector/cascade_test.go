package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/secretos/internal/models"
)

var schools = []models.School{
	{ID: 1, Name: "ESCUELA 1", Department: "CONCORDIA", Locality: "CONCORDIA"},
	{ID: 2, Name: "ESCUELA 2", Department: "CONCORDIA", Locality: "CONCORDIA"},
	{ID: 3, Name: "ESCUELA 3", Department: "CONCORDIA", Locality: "LA CRIOLLA"},
	{ID: 4, Name: "ESCUELA 4", Department: "FEDERAL", Locality: "FEDERAL"},
	{ID: 5, Name: "ESCUELA 5", Department: "PARANA", Locality: "PARANA"},
}

func TestCascade_DepartmentFiltersLocalities(t *testing.T) {
	c := New(schools, nil)
	require.False(t, c.DepartmentHidden())
	require.Equal(t, []string{"CONCORDIA", "FEDERAL", "PARANA"}, c.Departments())
	require.Empty(t, c.Localities())

	require.NoError(t, c.SelectDepartment("CONCORDIA"))
	require.Equal(t, []string{"CONCORDIA", "LA CRIOLLA"}, c.Localities())

	require.NoError(t, c.SelectLocality("CONCORDIA"))
	names := c.Names()
	require.Len(t, names, 2)
	for _, s := range names {
		assert.Equal(t, "CONCORDIA", s.Department)
	}
}

func TestCascade_SelectingLocalityResetsName(t *testing.T) {
	c := New(schools, nil)
	require.NoError(t, c.SelectDepartment("CONCORDIA"))
	require.NoError(t, c.SelectLocality("CONCORDIA"))
	require.NoError(t, c.SelectName(2))

	school, ok := c.School()
	require.True(t, ok)
	require.Equal(t, "ESCUELA 2", school.Name)

	require.NoError(t, c.SelectLocality("LA CRIOLLA"))
	_, ok = c.School()
	require.False(t, ok)
	_, _, id := c.Selected()
	require.Zero(t, id)
}

func TestCascade_SelectingDepartmentResetsLowerLevels(t *testing.T) {
	c := New(schools, nil)
	require.NoError(t, c.SelectDepartment("CONCORDIA"))
	require.NoError(t, c.SelectLocality("LA CRIOLLA"))
	require.NoError(t, c.SelectName(3))

	require.NoError(t, c.SelectDepartment("FEDERAL"))
	dep, loc, id := c.Selected()
	require.Equal(t, "FEDERAL", dep)
	require.Empty(t, loc)
	require.Zero(t, id)
	require.Empty(t, c.Names())
}

func TestCascade_RejectsOptionsOutsideCurrentLevel(t *testing.T) {
	c := New(schools, nil)
	require.ErrorIs(t, c.SelectLocality("CONCORDIA"), ErrNoParent)
	require.ErrorIs(t, c.SelectDepartment("ROSARIO"), ErrUnknownOption)

	require.NoError(t, c.SelectDepartment("FEDERAL"))
	require.ErrorIs(t, c.SelectLocality("CONCORDIA"), ErrUnknownOption)
	require.ErrorIs(t, c.SelectName(4), ErrNoParent)

	require.NoError(t, c.SelectLocality("FEDERAL"))
	require.ErrorIs(t, c.SelectName(1), ErrUnknownOption)
}

func TestCascade_SingleAllowedDepartmentIsAutoSelected(t *testing.T) {
	c := New(schools, []string{"concordia"})
	require.True(t, c.DepartmentHidden())
	require.Equal(t, []string{"CONCORDIA"}, c.Departments())

	dep, _, _ := c.Selected()
	require.Equal(t, "CONCORDIA", dep)
	require.Equal(t, []string{"CONCORDIA", "LA CRIOLLA"}, c.Localities())
}

func TestCascade_Apply(t *testing.T) {
	c := New(schools, []string{"CONCORDIA"})
	c.Apply("", "LA CRIOLLA", 3)
	school, ok := c.School()
	require.True(t, ok)
	require.Equal(t, uint(3), school.ID)

	c = New(schools, nil)
	c.Apply("CONCORDIA", "FEDERAL", 4)
	dep, loc, id := c.Selected()
	require.Equal(t, "CONCORDIA", dep)
	require.Empty(t, loc)
	require.Zero(t, id)
}

func TestForm_Validate(t *testing.T) {
	c := New(schools, []string{"CONCORDIA"})

	n := Form{Cascade: c, Title: "t", Content: "c"}.Validate()
	require.NotNil(t, n)
	require.Equal(t, MsgSchoolRequired, n.Title)

	c.Apply("", "CONCORDIA", 1)
	n = Form{Cascade: c, Title: " ", Content: "c"}.Validate()
	require.NotNil(t, n)
	require.Equal(t, MsgIncompleteForm, n.Title)

	require.Nil(t, Form{Cascade: c, Title: "t", Content: "c"}.Validate())
}
