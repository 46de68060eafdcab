package auth

// Claims representa la información extraída del token de sesión.
// id, username y role son los claims que emite /api/v1/auth/login.
type Claims struct {
	UserID   int
	Username string
	Role     string
}

// Roles conocidos.
const (
	RoleAdmin = "A"
	RoleStaff = "S"
)

// IsAdmin indica si el rol es administrador.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
