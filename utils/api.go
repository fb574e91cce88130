package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaginationInfo struct {
	NextCursor *string `json:"next"`
	PrevCursor *string `json:"prev"`
}

// Cursor points at the last item seen, in the direction given by PointsNext.
type Cursor struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	PointsNext bool      `json:"points_next"`
}

const (
	maxPageSize     int = 150
	minPageSize     int = 1
	defaultPageSize int = 50
)

func CreateCursor(id uuid.UUID, createdAt time.Time, pointsNext bool) *Cursor {
	return &Cursor{ID: id, CreatedAt: createdAt, PointsNext: pointsNext}
}

func GeneratePager(next *Cursor, prev *Cursor, routeName string, ctx *fiber.Ctx) PaginationInfo {
	routeParams := fiber.Map{}

	if route := ctx.Route(); route != nil {
		for _, param := range route.Params {
			routeParams[param] = ctx.Params(param)
		}
	}

	return PaginationInfo{
		NextCursor: CursorAbsoluteURL(encodeCursor(next), routeName, routeParams, ctx),
		PrevCursor: CursorAbsoluteURL(encodeCursor(prev), routeName, routeParams, ctx),
	}
}

func encodeCursor(cursor *Cursor) *string {
	if cursor == nil {
		return nil
	}

	serializedCursor, err := json.Marshal(cursor)
	if err != nil {
		return nil
	}

	encodedCursor := base64.RawURLEncoding.EncodeToString(serializedCursor)

	return &encodedCursor
}

func DecodeCursor(cursor string) (*Cursor, error) {
	decodedCursor, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("Could not decode cursor: %w", err)
	}

	cur := &Cursor{}
	if err := json.Unmarshal(decodedCursor, cur); err != nil {
		return nil, fmt.Errorf("Could not decode cursor: %w", err)
	}

	if cur.ID == uuid.Nil || cur.CreatedAt.IsZero() {
		return nil, errors.New("The cursor is incomplete.")
	}

	return cur, nil
}

func GetPaginationSize(p string) int {
	perPage := os.Getenv("PAGINATE_PER_PAGE")

	if len(p) > 0 {
		perPage = p
	}

	limit, err := strconv.Atoi(perPage)
	if err != nil {
		limit = defaultPageSize
	}

	if limit < minPageSize {
		limit = minPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	return limit
}

func CursorAbsoluteURL(cur *string, n string, p fiber.Map, c *fiber.Ctx) *string {
	if cur == nil {
		return nil
	}

	// Base URL
	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return cur
	}

	// Route URL
	route, err := c.GetRouteURL(n, p)
	if err != nil {
		return cur
	}

	// Parse route URL
	ru, err := url.ParseRequestURI(route)
	if err != nil {
		return cur
	}

	// Append route URL
	u.Path = ru.Path

	// Cursor query
	params := url.Values{}

	for key, value := range c.Queries() {
		params.Set(key, value)
	}

	params.Set("cursor", *cur)

	// Append cursor query
	u.RawQuery = params.Encode()

	// Absolute URL
	absUrl := u.Redacted()

	return &absUrl
}

func IsValidUuid(id uuid.UUID) bool {
	return id.Version() == 4 && id != uuid.Nil
}
