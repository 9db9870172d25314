package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// NormalizePage clamps page and size to the supported range
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset, limit int) {
	page, limit = NormalizePage(page, size)
	return (page - 1) * limit, limit
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	page, size = NormalizePage(page, size)

	totalPages := int((totalItems + int64(size) - 1) / int64(size))

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
		HasNext:     page < totalPages,
	}
}

// ParsePaginationParams extracts pagination parameters from the request.
// The page size is read from "pageSize" with "size" as an alias.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}

	sizeStr := c.Query("pageSize")
	if sizeStr == "" {
		sizeStr = c.DefaultQuery("size", strconv.Itoa(DefaultPageSize))
	}
	size, err = strconv.Atoi(sizeStr)
	if err != nil {
		size = DefaultPageSize
	}

	return NormalizePage(page, size)
}
