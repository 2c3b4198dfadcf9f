package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phoenixdev100/tap/core/user"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		resource Resource
		action   Action
		want     Decision
	}{
		{name: "admin bypasses the table", role: user.RoleAdmin, resource: ResourceSchedule, action: ActionDelete, want: AllowFull},
		{name: "admin on unknown resource", role: user.RoleAdmin, resource: Resource("nope"), action: ActionRead, want: AllowFull},

		{name: "student reads schedule", role: user.RoleStudent, resource: ResourceSchedule, action: ActionList, want: AllowFull},
		{name: "student cannot create schedule", role: user.RoleStudent, resource: ResourceSchedule, action: ActionCreate, want: Deny},
		{name: "teacher lists own schedule", role: user.RoleTeacher, resource: ResourceSchedule, action: ActionList, want: AllowOwn},
		{name: "teacher updates own schedule", role: user.RoleTeacher, resource: ResourceSchedule, action: ActionUpdate, want: AllowOwn},

		{name: "student submits own work", role: user.RoleStudent, resource: ResourceAssignment, action: ActionSubmit, want: AllowOwn},
		{name: "teacher cannot submit", role: user.RoleTeacher, resource: ResourceAssignment, action: ActionSubmit, want: Deny},
		{name: "student cannot grade", role: user.RoleStudent, resource: ResourceAssignment, action: ActionGrade, want: Deny},
		{name: "teacher grades own", role: user.RoleTeacher, resource: ResourceAssignment, action: ActionGrade, want: AllowOwn},

		{name: "teacher marks any student", role: user.RoleTeacher, resource: ResourceAttendance, action: ActionMark, want: AllowFull},
		{name: "student cannot mark", role: user.RoleStudent, resource: ResourceAttendance, action: ActionMark, want: Deny},
		{name: "student cannot export", role: user.RoleStudent, resource: ResourceAttendance, action: ActionExport, want: Deny},

		{name: "student uploads notes", role: user.RoleStudent, resource: ResourceNote, action: ActionCreate, want: AllowFull},
		{name: "student deletes own note", role: user.RoleStudent, resource: ResourceNote, action: ActionDelete, want: AllowOwn},

		{name: "unknown role", role: "registrar", resource: ResourceNote, action: ActionRead, want: Deny},
		{name: "unknown action", role: user.RoleTeacher, resource: ResourceNote, action: Action("archive"), want: Deny},
		{name: "unknown resource", role: user.RoleTeacher, resource: Resource("grades"), action: ActionRead, want: Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.resource, tt.action))
		})
	}
}

func TestDecisionAllowed(t *testing.T) {
	assert.False(t, Deny.Allowed())
	assert.True(t, AllowOwn.Allowed())
	assert.True(t, AllowFull.Allowed())
}
