package dto

type ActivityFilter struct {
	Action string `form:"action"`
	UserID string `form:"user_id"`
	Date   string `form:"date"` // YYYY-MM-DD
	Table  string `form:"table"`
	Search string `form:"search"`
}
