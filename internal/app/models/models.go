package models

import (
	"strings"

	"github.com/yigit/lms/internal/pkg/apperrors"
)

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMentor  Role = "mentor"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMentor, RoleStudent:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", apperrors.NewBadRequestError("role must be one of: admin, mentor, student").
			WithDetails(map[string]interface{}{"role": s})
	}
	return r, nil
}

// ApprovalStatus is the review state of a course
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the known approval states
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseApprovalStatus converts a raw string into an ApprovalStatus, rejecting unknown values.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	st := ApprovalStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperrors.NewBadRequestError("approval status must be one of: pending, approved, rejected").
			WithDetails(map[string]interface{}{"approvalStatus": s})
	}
	return st, nil
}
