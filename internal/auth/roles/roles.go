// Package roles defines the user roles recognized across the platform.
package roles

const (
	// Admin is a platform operator with full access.
	Admin = "ADMIN"
	// DealerPrincipal owns a dealership and manages its staff.
	DealerPrincipal = "DEALER_PRINCIPAL"
	// SalesManager runs a dealership's sales floor.
	SalesManager = "SALES_MANAGER"
	// SalesExecutive works leads at a dealership.
	SalesExecutive = "SALES_EXECUTIVE"
)

// DealerSide reports whether the role belongs to dealership staff, as
// opposed to platform operators.
func DealerSide(role string) bool {
	switch role {
	case DealerPrincipal, SalesManager, SalesExecutive:
		return true
	}
	return false
}

// Valid reports whether the role is one the platform recognizes.
func Valid(role string) bool {
	return role == Admin || DealerSide(role)
}
