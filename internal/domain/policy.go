package domain

// Role is a user's role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role Role
}

// AccessPolicy decides what an actor may see and change.
type AccessPolicy interface {
	// CanAdminister reports whether the actor may run admin-only operations
	// (create, field updates, delete, global statistics).
	CanAdminister(actor Actor) bool

	// CanView reports whether the actor may read the task.
	CanView(actor Actor, task *Task) bool

	// CanMutate reports whether the actor may change the task's status or checklist.
	CanMutate(actor Actor, task *Task) bool

	// Scope returns the filter restricting repository reads to what the actor may see.
	Scope(actor Actor) TaskFilter
}

// RolePolicy grants admins everything and members access to the tasks
// assigned to them.
type RolePolicy struct{}

// Ensure RolePolicy implements AccessPolicy.
var _ AccessPolicy = RolePolicy{}

// CanAdminister returns true for admins.
func (RolePolicy) CanAdminister(actor Actor) bool {
	return actor.Role == RoleAdmin
}

// CanView returns true for admins and assignees.
func (p RolePolicy) CanView(actor Actor, task *Task) bool {
	return p.CanAdminister(actor) || task.IsAssignedTo(actor.ID)
}

// CanMutate returns true for admins and assignees.
// Descriptive fields stay admin-only; see CanAdminister.
func (p RolePolicy) CanMutate(actor Actor, task *Task) bool {
	return p.CanAdminister(actor) || task.IsAssignedTo(actor.ID)
}

// Scope returns an empty filter for admins and an assignee filter otherwise.
func (p RolePolicy) Scope(actor Actor) TaskFilter {
	if p.CanAdminister(actor) {
		return TaskFilter{}
	}
	return TaskFilter{AssignedTo: actor.ID}
}

// RequireAdmin returns ErrAdminOnly unless the actor may administer.
func RequireAdmin(p AccessPolicy, actor Actor) error {
	if !p.CanAdminister(actor) {
		return ErrAdminOnly
	}
	return nil
}

// RequireView returns ErrNotVisible unless the actor may view the task.
func RequireView(p AccessPolicy, actor Actor, task *Task) error {
	if !p.CanView(actor, task) {
		return ErrNotVisible
	}
	return nil
}

// RequireMutate returns ErrNotAssigned unless the actor may mutate the task.
func RequireMutate(p AccessPolicy, actor Actor, task *Task) error {
	if !p.CanMutate(actor, task) {
		return ErrNotAssigned
	}
	return nil
}
