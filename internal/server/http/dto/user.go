package dto

import "github.com/polkiloo/userstore/internal/domain/model"

// UserRequest describes login/password payload.
type UserRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user; the password never leaves the service.
type UserResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// NewUserResponse converts domain user into response payload.
func NewUserResponse(u model.User) UserResponse {
	return UserResponse{ID: u.ID, Login: u.Login}
}

// NewUserListResponse converts users keeping their order.
func NewUserListResponse(users []model.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, NewUserResponse(u))
	}
	return resp
}
