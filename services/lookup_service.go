package services

import (
	"sync"
	"time"

	"research-cell-api/config"
	"research-cell-api/models"
)

var (
	lookupCacheMu sync.RWMutex
	lookupCache   *lookupCacheEntry
	lookupTTL     = 5 * time.Minute
)

type lookupCacheEntry struct {
	departments  []models.Department
	domains      []models.ResearchDomain
	byDomainID   map[int]models.ResearchDomain
	byDepartment map[int]models.Department
	fetchedAt    time.Time
}

func loadLookups(force bool) (*lookupCacheEntry, error) {
	lookupCacheMu.RLock()
	cached := lookupCache
	lookupCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < lookupTTL {
		return cached, nil
	}

	lookupCacheMu.Lock()
	defer lookupCacheMu.Unlock()

	if lookupCache != nil && !force && time.Since(lookupCache.fetchedAt) < lookupTTL {
		return lookupCache, nil
	}

	var departments []models.Department
	if err := config.DB.Where("delete_at IS NULL").Find(&departments).Error; err != nil {
		return nil, WrapError(KindInternal, "Failed to load departments", err)
	}

	var domains []models.ResearchDomain
	if err := config.DB.Where("delete_at IS NULL").Find(&domains).Error; err != nil {
		return nil, WrapError(KindInternal, "Failed to load research domains", err)
	}

	byDomainID := make(map[int]models.ResearchDomain, len(domains))
	for _, domain := range domains {
		byDomainID[domain.DomainID] = domain
	}
	byDepartment := make(map[int]models.Department, len(departments))
	for _, department := range departments {
		byDepartment[department.DepartmentID] = department
	}

	entry := &lookupCacheEntry{
		departments:  departments,
		domains:      domains,
		byDomainID:   byDomainID,
		byDepartment: byDepartment,
		fetchedAt:    time.Now(),
	}
	lookupCache = entry
	return entry, nil
}

// ClearLookupCache invalidates the in-memory department/domain cache.
// Admin mutations call this so readers observe new rows immediately.
func ClearLookupCache() {
	lookupCacheMu.Lock()
	defer lookupCacheMu.Unlock()
	lookupCache = nil
}

// GetDepartments returns all departments with caching support.
func GetDepartments() ([]models.Department, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}
	return entry.departments, nil
}

// GetResearchDomains returns all research domains with caching support.
func GetResearchDomains() ([]models.ResearchDomain, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}
	return entry.domains, nil
}

// DepartmentExists reports whether a department id is known.
func DepartmentExists(departmentID int) (bool, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return false, err
	}
	if _, ok := entry.byDepartment[departmentID]; ok {
		return true, nil
	}

	// Force refresh once before giving up; the row may be newer than the cache.
	entry, err = loadLookups(true)
	if err != nil {
		return false, err
	}
	_, ok := entry.byDepartment[departmentID]
	return ok, nil
}

// ResolveDomains maps domain ids to rows, failing validation when any id is
// unknown.
func ResolveDomains(domainIDs []int) ([]models.ResearchDomain, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}

	resolved := make([]models.ResearchDomain, 0, len(domainIDs))
	missing := false
	for _, id := range domainIDs {
		domain, ok := entry.byDomainID[id]
		if !ok {
			missing = true
			break
		}
		resolved = append(resolved, domain)
	}
	if !missing {
		return resolved, nil
	}

	entry, err = loadLookups(true)
	if err != nil {
		return nil, err
	}

	resolved = resolved[:0]
	for _, id := range domainIDs {
		domain, ok := entry.byDomainID[id]
		if !ok {
			return nil, NewError(KindValidation, "Unknown research domain")
		}
		resolved = append(resolved, domain)
	}
	return resolved, nil
}

func researchDomainsByID() (map[int]models.ResearchDomain, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}
	return entry.byDomainID, nil
}
