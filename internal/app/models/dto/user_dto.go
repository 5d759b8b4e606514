package dto

import "github.com/yigit/lms/internal/app/models"

// UserFilterRequest represents user filtering parameters
type UserFilterRequest struct {
	Role string `form:"role" binding:"omitempty,lmsrole"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// NewUserListResponse converts user models into the list response
func NewUserListResponse(users []*models.User) UserListResponse {
	out := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, NewUserResponse(u))
	}
	out.Total = len(out.Users)
	return out
}
