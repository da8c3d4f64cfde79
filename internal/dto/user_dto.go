package dto

type UserFilter struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Status string `form:"status"` // "active" | "inactive" | ""
}

type CreateUserInput struct {
	Username  string `form:"username" binding:"required,min=3,max=50"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,min=6"`
	Role      string `form:"role" binding:"required,oneof=admin user"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Phone     string `form:"phone"`
}

type UpdateUserInput struct {
	Username  string `form:"username" binding:"required,min=3,max=50"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password"` // blank keeps the current password
	Role      string `form:"role" binding:"required,oneof=admin user"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Phone     string `form:"phone"`
	IsActive  bool   `form:"is_active"`
}

type BulkUserInput struct {
	Action  string   `form:"bulk_action" binding:"required,oneof=activate deactivate delete"`
	UserIDs []string `form:"user_ids[]" binding:"required,min=1"`
}
