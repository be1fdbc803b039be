package controllers

import (
	"testing"

	"research-cell-api/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateMemberInputs(t *testing.T) {
	researcher := func(id int) teamMemberInput {
		return teamMemberInput{UserID: id, RoleInTeam: models.TeamRoleResearcher}
	}

	tests := []struct {
		name       string
		members    []teamMemberInput
		creatorID  int
		maxMembers int
		wantMsg    string
	}{
		{
			name:       "valid list",
			members:    []teamMemberInput{researcher(2), {UserID: 3, RoleInTeam: models.TeamRoleAssistant}},
			creatorID:  1,
			maxMembers: 5,
			wantMsg:    "",
		},
		{
			name:       "empty list",
			members:    nil,
			creatorID:  1,
			maxMembers: 1,
			wantMsg:    "",
		},
		{
			name:       "creator listed",
			members:    []teamMemberInput{researcher(1)},
			creatorID:  1,
			maxMembers: 5,
			wantMsg:    "Creator is added automatically as lead",
		},
		{
			name:       "duplicate user",
			members:    []teamMemberInput{researcher(2), researcher(2)},
			creatorID:  1,
			maxMembers: 5,
			wantMsg:    "Duplicate user in member list",
		},
		{
			name:       "lead role not grantable",
			members:    []teamMemberInput{{UserID: 2, RoleInTeam: models.TeamRoleLead}},
			creatorID:  1,
			maxMembers: 5,
			wantMsg:    "Members may only join as researcher or assistant",
		},
		{
			name:       "unknown role",
			members:    []teamMemberInput{{UserID: 2, RoleInTeam: "manager"}},
			creatorID:  1,
			maxMembers: 5,
			wantMsg:    "Members may only join as researcher or assistant",
		},
		{
			name:       "list plus lead over capacity",
			members:    []teamMemberInput{researcher(2), researcher(3)},
			creatorID:  1,
			maxMembers: 2,
			wantMsg:    "Member list exceeds max_members",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, validateMemberInputs(tt.members, tt.creatorID, tt.maxMembers))
		})
	}
}
