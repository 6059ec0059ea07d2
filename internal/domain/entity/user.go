package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleBodeguero  = "bodeguero"
	RoleVendedor   = "vendedor"
)

// ApproverRoles son los roles autorizados a aprobar o rechazar solicitudes de stock.
var ApproverRoles = []string{RoleSuperAdmin, RoleAdmin}

// CanApprove indica si un rol puede decidir solicitudes de movimiento de stock.
func CanApprove(role string) bool {
	for _, r := range ApproverRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // super_admin, admin, bodeguero, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
