package models

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is keyed by Email in every store.
type User struct {
	Email string `json:"email" bson:"email"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
