package dto

import "gandalf/internal/domain"

type ProductFilters struct {
	Search     string
	CategoryID string
}

type ProductPage struct {
	Products   []domain.Product `json:"products"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

type SaveProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type SaveCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
