package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/school-help-desk/internal/model"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		callerID uint64
		role     model.Role
		ownerID  uint64
		action   Action
		want     Decision
	}{
		{"admin reads any resource", 1, model.RoleAdmin, 99, ActionRead, Allow},
		{"admin updates any resource", 1, model.RoleAdmin, 99, ActionUpdate, Allow},
		{"admin deletes any resource", 1, model.RoleAdmin, 99, ActionDelete, Allow},
		{"student reads own resource", 5, model.RoleStudent, 5, ActionRead, Allow},
		{"student updates own resource", 5, model.RoleStudent, 5, ActionUpdate, Allow},
		{"student deletes own resource", 5, model.RoleStudent, 5, ActionDelete, Allow},
		{"student creates own resource", 5, model.RoleStudent, 5, ActionCreate, Allow},
		{"student reads foreign resource", 5, model.RoleStudent, 9, ActionRead, Deny},
		{"student updates foreign resource", 5, model.RoleStudent, 9, ActionUpdate, Deny},
		{"student deletes foreign resource", 5, model.RoleStudent, 9, ActionDelete, Deny},
		{"unknown role is denied", 5, model.Role("Janitor"), 5, ActionRead, Deny},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.callerID, tc.role, tc.ownerID, tc.action))
		})
	}
}

func TestCanModerateTicket(t *testing.T) {
	t.Parallel()

	assert.True(t, CanModerateTicket(model.RoleAdmin))
	assert.False(t, CanModerateTicket(model.RoleStudent))
}
