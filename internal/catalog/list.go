package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse feed.
type ListFilters struct {
	CategoryID         *uuid.UUID
	SellerID           *uuid.UUID
	Query              string
	IncludeUnavailable bool
}

// ListProductsInput captures the inputs needed to paginate and filter listings.
type ListProductsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

func loweredPattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	// LIKE metacharacters in user input match literally
	q = strings.ReplaceAll(q, `\`, `\\`)
	q = strings.ReplaceAll(q, "%", `\%`)
	q = strings.ReplaceAll(q, "_", `\_`)
	return q
}
