package services

import (
	"sort"
	"strings"

	"research-cell-api/config"
	"research-cell-api/models"
)

// Candidate is a ranked team-member recommendation.
type Candidate struct {
	User            models.User             `json:"user"`
	Domains         []models.ResearchDomain `json:"domains"`
	MatchingDomains []models.ResearchDomain `json:"matching_domains"`
}

// FindCandidates returns accounts from the given department eligible to join
// the team, ranked by research-domain overlap with the creator's domains.
// Teachers and students form the self-selectable member pool; current team
// members are excluded.
func FindCandidates(departmentID int, creatorDomainIDs []int, teamID int) ([]Candidate, error) {
	memberIDs := config.DB.Model(&models.TeamMember{}).
		Select("user_id").
		Where("team_id = ?", teamID)

	var users []models.User
	err := config.DB.
		Where("department_id = ? AND role IN ? AND is_verified = ? AND delete_at IS NULL",
			departmentID, []string{models.RoleTeacher, models.RoleStudent}, true).
		Where("user_id NOT IN (?)", memberIDs).
		Find(&users).Error
	if err != nil {
		return nil, WrapError(KindInternal, "Failed to load candidate pool", err)
	}
	if len(users) == 0 {
		return []Candidate{}, nil
	}

	userIDs := make([]int, 0, len(users))
	for _, user := range users {
		userIDs = append(userIDs, user.UserID)
	}

	var links []models.UserResearchDomain
	if err := config.DB.Where("user_id IN ?", userIDs).Find(&links).Error; err != nil {
		return nil, WrapError(KindInternal, "Failed to load candidate domains", err)
	}

	domainsByID, err := researchDomainsByID()
	if err != nil {
		return nil, err
	}

	domainsByUser := make(map[int][]models.ResearchDomain, len(users))
	for _, link := range links {
		domain, ok := domainsByID[link.DomainID]
		if !ok {
			continue
		}
		domainsByUser[link.UserID] = append(domainsByUser[link.UserID], domain)
	}

	candidates := make([]Candidate, 0, len(users))
	for _, user := range users {
		domains := domainsByUser[user.UserID]
		if domains == nil {
			domains = []models.ResearchDomain{}
		}
		candidates = append(candidates, Candidate{User: user, Domains: domains})
	}

	return RankCandidates(candidates, creatorDomainIDs), nil
}

// RankCandidates fills MatchingDomains from the creator's domain set and
// orders candidates: matching-domain count descending, ties by name
// ascending, candidates without a match last (name ascending, then id, so
// pagination stays deterministic).
func RankCandidates(candidates []Candidate, creatorDomainIDs []int) []Candidate {
	creatorSet := make(map[int]bool, len(creatorDomainIDs))
	for _, id := range creatorDomainIDs {
		creatorSet[id] = true
	}

	for i := range candidates {
		matching := []models.ResearchDomain{}
		for _, domain := range candidates[i].Domains {
			if creatorSet[domain.DomainID] {
				matching = append(matching, domain)
			}
		}
		candidates[i].MatchingDomains = matching
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		mi, mj := len(candidates[i].MatchingDomains), len(candidates[j].MatchingDomains)
		if (mi > 0) != (mj > 0) {
			return mi > 0
		}
		if mi != mj {
			return mi > mj
		}
		ni := strings.ToLower(candidates[i].User.FullName())
		nj := strings.ToLower(candidates[j].User.FullName())
		if ni != nj {
			return ni < nj
		}
		return candidates[i].User.UserID < candidates[j].User.UserID
	})

	return candidates
}
