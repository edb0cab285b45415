package handler

import "catalogadmin/internal/model"

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string      `json:"message" example:"Login successful"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	User *model.User `json:"user"`
}

// UserListResponse is a page of users.
type UserListResponse struct {
	Users []model.User   `json:"users"`
	Meta  model.PageMeta `json:"meta"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Category *model.Category `json:"category"`
}

// CategoryListResponse is a page of categories.
type CategoryListResponse struct {
	Categories []model.Category `json:"categories"`
	Meta       model.PageMeta   `json:"meta"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Product *model.Product `json:"product"`
}

// ProductListResponse is a page of products.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Meta     model.PageMeta  `json:"meta"`
}

// SeedResponse reports how many rows a seeding run created.
type SeedResponse struct {
	Message    string `json:"message"`
	Users      int    `json:"users"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
