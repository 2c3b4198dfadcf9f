// Package access decides what a caller may do with a resource.
//
// The portal's authorization rules are small and static, so they live
// in one declarative table instead of per-handler role conditionals:
// (role, resource, action) -> Decision. Owner checks for AllowOwn
// decisions remain with the caller, which knows the resource's owner
// field.
package access

import "github.com/phoenixdev100/tap/core/user"

type (
	Resource string
	Action   string

	// Decision is the result of a policy lookup.
	Decision int
)

const (
	ResourceUser       Resource = "user"
	ResourceSchedule   Resource = "schedule"
	ResourceAssignment Resource = "assignment"
	ResourceAttendance Resource = "attendance"
	ResourceNote       Resource = "note"
)

const (
	ActionList     Action = "list"
	ActionRead     Action = "read"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionSubmit   Action = "submit"
	ActionGrade    Action = "grade"
	ActionMark     Action = "mark"
	ActionDownload Action = "download"
	ActionReact    Action = "react"
	ActionExport   Action = "export"
	ActionStats    Action = "stats"
)

const (
	Deny Decision = iota
	AllowOwn
	AllowFull
)

func (d Decision) Allowed() bool { return d != Deny }

// DeniedMessage is the fixed user-visible text for a Deny decision.
const DeniedMessage = "you do not have permission to perform this action"

type decisions struct {
	student Decision
	teacher Decision
	// admin is always AllowFull; see Can.
}

// policy is the full role x resource x action table. Missing entries
// deny. "Own" means: records pertaining to the student, or owned by
// the teacher, depending on role.
var policy = map[Resource]map[Action]decisions{
	ResourceUser: {
		ActionRead:   {student: AllowOwn, teacher: AllowOwn},
		ActionUpdate: {student: AllowOwn, teacher: AllowOwn},
	},
	ResourceSchedule: {
		// the weekly timetable is meant to be consulted by everyone
		ActionList:   {student: AllowFull, teacher: AllowOwn},
		ActionRead:   {student: AllowFull, teacher: AllowOwn},
		ActionCreate: {teacher: AllowOwn},
		ActionUpdate: {teacher: AllowOwn},
		ActionDelete: {teacher: AllowOwn},
	},
	ResourceAssignment: {
		ActionList:     {student: AllowOwn, teacher: AllowOwn},
		ActionRead:     {student: AllowOwn, teacher: AllowOwn},
		ActionStats:    {student: AllowOwn, teacher: AllowOwn},
		ActionCreate:   {teacher: AllowOwn},
		ActionUpdate:   {teacher: AllowOwn},
		ActionDelete:   {teacher: AllowOwn},
		ActionSubmit:   {student: AllowOwn},
		ActionGrade:    {teacher: AllowOwn},
		ActionDownload: {student: AllowOwn, teacher: AllowOwn},
	},
	ResourceAttendance: {
		ActionList:   {student: AllowOwn, teacher: AllowFull},
		ActionStats:  {student: AllowOwn, teacher: AllowOwn},
		ActionMark:   {teacher: AllowFull},
		ActionExport: {teacher: AllowOwn},
	},
	ResourceNote: {
		ActionList:     {student: AllowFull, teacher: AllowFull},
		ActionRead:     {student: AllowFull, teacher: AllowFull},
		ActionCreate:   {student: AllowFull, teacher: AllowFull},
		ActionUpdate:   {student: AllowOwn, teacher: AllowOwn},
		ActionDelete:   {student: AllowOwn, teacher: AllowOwn},
		ActionDownload: {student: AllowFull, teacher: AllowFull},
		ActionReact:    {student: AllowFull, teacher: AllowFull},
	},
}

// Can evaluates the policy table for a caller role.
func Can(role string, resource Resource, action Action) Decision {
	if role == user.RoleAdmin {
		return AllowFull
	}
	actions, ok := policy[resource]
	if !ok {
		return Deny
	}
	decs, ok := actions[action]
	if !ok {
		return Deny
	}
	switch role {
	case user.RoleStudent:
		return decs.student
	case user.RoleTeacher:
		return decs.teacher
	}
	return Deny
}
