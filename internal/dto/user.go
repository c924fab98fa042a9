package dto

import "gandalf/internal/domain"

type UserFilters struct {
	Search string
}

type UserPage struct {
	Users      []domain.User `json:"users"`
	TotalCount int64         `json:"totalCount"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}
