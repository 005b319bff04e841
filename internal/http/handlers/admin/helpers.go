package admin

import (
	"time"

	handlershared "github.com/fanli-next/internal/http/handlers/shared"
	"github.com/fanli-next/internal/http/response"
)

const dateLayout = "2006-01-02"

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

func parseDateNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
