package services

import (
	"testing"

	"research-cell-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	robotics = models.ResearchDomain{DomainID: 3, DomainName: "Robotics"}
	ai       = models.ResearchDomain{DomainID: 4, DomainName: "AI"}
	biotech  = models.ResearchDomain{DomainID: 5, DomainName: "Biotechnology"}
)

func candidate(id int, name string, domains ...models.ResearchDomain) Candidate {
	return Candidate{
		User:    models.User{UserID: id, UserFname: name},
		Domains: domains,
	}
}

func TestRankCandidatesByMatchingDomainCount(t *testing.T) {
	// Creator researches Robotics and AI. Y matches both, X one.
	ranked := RankCandidates([]Candidate{
		candidate(1, "X", robotics),
		candidate(2, "Y", ai, robotics),
	}, []int{robotics.DomainID, ai.DomainID})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Y", ranked[0].User.UserFname)
	assert.Len(t, ranked[0].MatchingDomains, 2)
	assert.Equal(t, "X", ranked[1].User.UserFname)
	assert.Len(t, ranked[1].MatchingDomains, 1)
}

func TestRankCandidatesOrderingInvariant(t *testing.T) {
	ranked := RankCandidates([]Candidate{
		candidate(1, "Ada", biotech),
		candidate(2, "Bob", robotics, ai, biotech),
		candidate(3, "Cleo"),
		candidate(4, "Dan", ai),
		candidate(5, "Eve", robotics, ai),
	}, []int{robotics.DomainID, ai.DomainID})

	require.Len(t, ranked, 5)

	// More matches always sort before fewer matches.
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t,
			len(ranked[i-1].MatchingDomains),
			len(ranked[i].MatchingDomains),
			"candidate %d sorted after a weaker match", i)
	}

	// Matched candidates precede unmatched ones.
	assert.NotEmpty(t, ranked[0].MatchingDomains)
	assert.Empty(t, ranked[4].MatchingDomains)
}

func TestRankCandidatesTiesBrokenByName(t *testing.T) {
	ranked := RankCandidates([]Candidate{
		candidate(9, "Zoe", robotics),
		candidate(7, "Amy", robotics),
		candidate(8, "Mia", robotics),
	}, []int{robotics.DomainID})

	require.Len(t, ranked, 3)
	assert.Equal(t, "Amy", ranked[0].User.UserFname)
	assert.Equal(t, "Mia", ranked[1].User.UserFname)
	assert.Equal(t, "Zoe", ranked[2].User.UserFname)
}

func TestRankCandidatesEmptyCreatorDomains(t *testing.T) {
	// Without creator domains every candidate stays, with no matches,
	// ordered by name.
	ranked := RankCandidates([]Candidate{
		candidate(1, "Nia", robotics),
		candidate(2, "Ben", ai),
	}, nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Ben", ranked[0].User.UserFname)
	assert.Empty(t, ranked[0].MatchingDomains)
	assert.Empty(t, ranked[1].MatchingDomains)
}
