package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	departmentQuery = regexp.MustCompile("SELECT \\* FROM `departments` WHERE delete_at IS NULL")
	domainQuery     = regexp.MustCompile("SELECT \\* FROM `research_domains` WHERE delete_at IS NULL")
)

func departmentStep(rows [][]driver.Value) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: departmentQuery,
		args:    []driver.Value{},
		columns: []string{"department_id", "department_name", "create_at", "delete_at"},
		rows:    rows,
	}
}

func domainStep(rows [][]driver.Value) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: domainQuery,
		args:    []driver.Value{},
		columns: []string{"domain_id", "domain_name", "create_at", "delete_at"},
		rows:    rows,
	}
}

func withScriptedLookupDB(t *testing.T, steps []*queryStep) *scriptedDB {
	t.Helper()
	state := withScriptedDB(t, steps)
	ClearLookupCache()
	t.Cleanup(ClearLookupCache)
	return state
}

func TestLookupCacheServesRepeatReads(t *testing.T) {
	state := withScriptedLookupDB(t, []*queryStep{
		departmentStep([][]driver.Value{
			{int64(1), "Computer Engineering", nil, nil},
			{int64(2), "Electrical Engineering", nil, nil},
		}),
		domainStep([][]driver.Value{
			{int64(3), "Robotics", nil, nil},
			{int64(4), "AI", nil, nil},
		}),
	})

	departments, err := GetDepartments()
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Computer Engineering", departments[0].DepartmentName)

	// Both reads and the repeat come out of the single cached load.
	domains, err := GetResearchDomains()
	require.NoError(t, err)
	require.Len(t, domains, 2)

	departments, err = GetDepartments()
	require.NoError(t, err)
	assert.Len(t, departments, 2)

	assert.NoError(t, state.verifyComplete())
}

func TestClearLookupCacheForcesReload(t *testing.T) {
	state := withScriptedLookupDB(t, []*queryStep{
		departmentStep([][]driver.Value{
			{int64(1), "Computer Engineering", nil, nil},
		}),
		domainStep([][]driver.Value{}),
		departmentStep([][]driver.Value{
			{int64(1), "Computer Engineering", nil, nil},
			{int64(2), "Mechanical Engineering", nil, nil},
		}),
		domainStep([][]driver.Value{}),
	})

	departments, err := GetDepartments()
	require.NoError(t, err)
	require.Len(t, departments, 1)

	ClearLookupCache()

	departments, err = GetDepartments()
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Mechanical Engineering", departments[1].DepartmentName)

	assert.NoError(t, state.verifyComplete())
}

func TestResolveDomainsRejectsUnknownIDs(t *testing.T) {
	state := withScriptedLookupDB(t, []*queryStep{
		departmentStep([][]driver.Value{}),
		domainStep([][]driver.Value{
			{int64(3), "Robotics", nil, nil},
		}),
		// ResolveDomains force-refreshes once before failing validation.
		departmentStep([][]driver.Value{}),
		domainStep([][]driver.Value{
			{int64(3), "Robotics", nil, nil},
		}),
	})

	resolved, err := ResolveDomains([]int{3})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Robotics", resolved[0].DomainName)

	_, err = ResolveDomains([]int{3, 99})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	assert.NoError(t, state.verifyComplete())
}
