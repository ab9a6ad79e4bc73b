package models

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents an authenticated account: buyers place orders, sellers
// list products and fulfil line items.
type User struct {
	BaseModel
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	StoreName    string `json:"store_name,omitempty"`
}
