package postgres

import "github.com/devgate/monetize/internal/types"

// sortColumn whitelists sortable columns since sort keys are caller supplied
func sortColumn(sort string) string {
	switch sort {
	case "created_at", "updated_at", "start_date", "end_date", "amount":
		return sort
	default:
		return types.FILTER_DEFAULT_SORT
	}
}

// sortOrder normalizes the sort direction
func sortOrder(order string) string {
	if order == types.OrderAsc {
		return "ASC"
	}
	return "DESC"
}
