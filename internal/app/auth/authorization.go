package auth

import (
	"github.com/yigit/lms/internal/app/models"
)

// Caller is the authenticated identity behind a request
type Caller struct {
	ID   string
	Role models.Role
}

// IsAdmin checks if the caller is an admin
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// IsMentor checks if the caller is a mentor
func (c Caller) IsMentor() bool {
	return c.Role == models.RoleMentor
}

// Visibility describes which courses a caller may see.
//
// All means no restriction. Otherwise a course is visible when it is approved,
// or when OwnerID is non-empty and the course belongs to that mentor.
type Visibility struct {
	All     bool
	OwnerID string
}

// Allows evaluates the visibility predicate against a single course
func (v Visibility) Allows(course *models.Course) bool {
	if course == nil {
		return false
	}
	if v.All {
		return true
	}
	if course.ApprovalStatus == models.StatusApproved {
		return true
	}
	return v.OwnerID != "" && course.OwnedBy(v.OwnerID)
}

// CanCreate checks if the role may create courses
func CanCreate(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleMentor
}

// ResolveMentorIDOnCreate returns the mentor a new course belongs to.
// Admins assign whoever they asked for; mentors always own what they create.
func ResolveMentorIDOnCreate(caller Caller, requested *string) *string {
	if caller.IsAdmin() {
		return requested
	}
	if caller.IsMentor() {
		id := caller.ID
		return &id
	}
	return nil
}

// VisibilityFilter builds the list predicate for the caller
func VisibilityFilter(caller Caller) Visibility {
	switch caller.Role {
	case models.RoleAdmin:
		return Visibility{All: true}
	case models.RoleMentor:
		return Visibility{OwnerID: caller.ID}
	default:
		return Visibility{}
	}
}

// CanView is the single-course form of VisibilityFilter
func CanView(caller Caller, course *models.Course) bool {
	return VisibilityFilter(caller).Allows(course)
}

// CanUpdate checks if the caller may edit the descriptive fields of a course
func CanUpdate(caller Caller, course *models.Course) bool {
	if course == nil {
		return false
	}
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleMentor:
		return course.OwnedBy(caller.ID)
	default:
		return false
	}
}

// CanReassignMentor checks if the role may change the mentor of an existing course
func CanReassignMentor(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanDelete checks if the role may delete courses. Ownership does not matter.
func CanDelete(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanApprove checks if the role may change a course's approval status
func CanApprove(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanListByMentor checks if the caller may list every course of targetMentorID
func CanListByMentor(caller Caller, targetMentorID string) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleMentor:
		return caller.ID != "" && caller.ID == targetMentorID
	default:
		return false
	}
}

// CanListUsers checks if the role may list registered users
func CanListUsers(role models.Role) bool {
	return role == models.RoleAdmin
}
