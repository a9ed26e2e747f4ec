package domain

// Role is the access level carried in the identity token
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Permission is a closed enumeration of gated actions
type Permission string

const (
	PermCreateOrders      Permission = "create_orders"
	PermChangeOrderStatus Permission = "change_order_status"
	PermProcessPayments   Permission = "process_payments"
	PermDeleteOrders      Permission = "delete_orders"
	PermDeleteQuotes      Permission = "delete_quotes"
	PermRespondQuotes     Permission = "respond_quotes"
	PermViewProducts      Permission = "view_products"
	PermCreateProducts    Permission = "create_products"
	PermUpdateProducts    Permission = "update_products"
	PermDeleteProducts    Permission = "delete_products"
)

// rolePermissions is the static role -> allowed action table. Pure data.
var rolePermissions = map[Role]map[Permission]bool{
	RoleGuest: {
		PermViewProducts: true,
	},
	RoleUser: {
		PermCreateOrders:      true,
		PermChangeOrderStatus: true,
		PermViewProducts:      true,
	},
	RoleAdmin: {
		PermCreateOrders:      true,
		PermChangeOrderStatus: true,
		PermProcessPayments:   true,
		PermDeleteOrders:      true,
		PermDeleteQuotes:      true,
		PermRespondQuotes:     true,
		PermViewProducts:      true,
		PermCreateProducts:    true,
		PermUpdateProducts:    true,
		PermDeleteProducts:    true,
	},
}

// Has reports whether the role is allowed to perform the action.
// Unknown roles have no permissions.
func (r Role) Has(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	return perms[p]
}
