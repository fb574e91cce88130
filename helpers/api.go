package helpers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alfredoramos.mx/site-builder/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ASC  = "asc"
	DESC = "desc"
)

type PaginatedItem interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
}

type PaginatedItemOpts struct {
	RouteName  string
	TableAlias string
}

func PaginateQuery[T PaginatedItem](items []T, query *gorm.DB, c *fiber.Ctx, opts PaginatedItemOpts) error {
	sortOrder := strings.ToLower(c.Query("sort_order", DESC))
	cursor := c.Query("cursor")
	limit := utils.GetPaginationSize(c.Query("per_page"))
	isFirstPage := len(cursor) < 1

	if sortOrder != ASC {
		sortOrder = DESC
	}

	query, pointsNext, err := GetPaginationQuery(query, cursor, sortOrder, opts.TableAlias)
	if err != nil {
		slog.Warn(fmt.Sprintf("Error paginating results: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Could not paginate results."},
		})
	}

	if err := query.Limit(limit + 1).Find(&items).Error; err != nil {
		return ErrorResponse(c, fmt.Errorf("Error getting paginated results: %w", err))
	}

	hasPagination := len(items) > limit

	if hasPagination {
		items = items[:limit]
	}

	if !isFirstPage && !pointsNext {
		items = utils.Reverse(items)
	}

	pageInfo := CalculatePagination(isFirstPage, hasPagination, items, pointsNext, opts.RouteName, c)

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"data": items,
		"next": pageInfo.NextCursor,
		"prev": pageInfo.PrevCursor,
	})
}

// GetPaginationQuery orders by creation date and applies the cursor
// condition. It reports whether the cursor points forward.
func GetPaginationQuery(query *gorm.DB, cursor string, sortOrder string, tableAlias string) (*gorm.DB, bool, error) {
	pointsNext := false
	alias := ""

	if len(tableAlias) > 0 {
		alias = tableAlias + "."
	}

	if len(cursor) > 0 {
		decodedCursor, err := utils.DecodeCursor(cursor)
		if err != nil {
			return nil, pointsNext, err
		}

		pointsNext = decodedCursor.PointsNext
		operator, order := getPaginationOperator(pointsNext, sortOrder)
		whereStr := fmt.Sprintf("(%[1]screated_at %[2]s @created_at OR (%[1]screated_at = @created_at AND %[1]sid %[2]s @id))", alias, operator)
		query = query.Where(whereStr, sql.Named("created_at", decodedCursor.CreatedAt), sql.Named("id", decodedCursor.ID))

		if len(order) > 0 {
			sortOrder = order
		}
	}

	query = query.Order(fmt.Sprintf("%[1]screated_at %[2]s, %[1]sid %[2]s", alias, sortOrder))

	return query, pointsNext, nil
}

func getPaginationOperator(pointsNext bool, sortOrder string) (string, string) {
	if pointsNext && sortOrder == ASC {
		return ">", ""
	}

	if pointsNext && sortOrder == DESC {
		return "<", ""
	}

	if !pointsNext && sortOrder == ASC {
		return "<", DESC
	}

	if !pointsNext && sortOrder == DESC {
		return ">", ASC
	}

	return "", ""
}

func CalculatePagination[T PaginatedItem](isFirstPage bool, hasPagination bool, items []T, pointsNext bool, routeName string, ctx *fiber.Ctx) utils.PaginationInfo {
	var nextCur, prevCur *utils.Cursor

	if len(items) < 1 {
		return utils.GeneratePager(nil, nil, routeName, ctx)
	}

	first, last := items[0], items[len(items)-1]

	switch {
	case isFirstPage:
		if hasPagination {
			nextCur = utils.CreateCursor(last.GetID(), last.GetCreatedAt(), true)
		}
	case pointsNext:
		if hasPagination {
			nextCur = utils.CreateCursor(last.GetID(), last.GetCreatedAt(), true)
		}

		prevCur = utils.CreateCursor(first.GetID(), first.GetCreatedAt(), false)
	default:
		nextCur = utils.CreateCursor(last.GetID(), last.GetCreatedAt(), true)

		if hasPagination {
			prevCur = utils.CreateCursor(first.GetID(), first.GetCreatedAt(), false)
		}
	}

	return utils.GeneratePager(nextCur, prevCur, routeName, ctx)
}
