package params

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moimo-team/moaclass-back/core/constants"
)

// QueryParams holds the common listing inputs parsed off the query string.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

func NewQueryParams(ctx echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: 1,
		PageSize:   constants.DefaultPageSize,
		Search:     ctx.QueryParam("search"),
	}

	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && page > 0 {
		p.PageNumber = page
	}
	if limit, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && limit > 0 {
		p.PageSize = limit
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}

	return p
}

func (p *QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
