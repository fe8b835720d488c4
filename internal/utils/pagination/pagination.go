package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// Params is a normalized page request: 1 <= Page <= MaxPage,
// 1 <= Limit <= MaxLimit.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// New clamps page and limit into range.
func New(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParseFromRequest handles pagination parameters from Fiber context
func ParseFromRequest(c *fiber.Ctx) Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	return New(page, limit)
}

// Meta is the pagination block returned with every list.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewMeta builds the pagination block. TotalPages is at least 1, so an
// empty list still reports one (empty) page.
func NewMeta(p Params, total int64) Meta {
	totalPages := int(total / int64(p.Limit))
	if total%int64(p.Limit) > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return Meta{
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}
