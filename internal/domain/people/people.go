// Package people define clientes y usuarios del sistema.
package people

import (
	"goldendogfarm-admin/internal/domain/kennel"
	"goldendogfarm-admin/internal/ports/auth"
	"goldendogfarm-admin/internal/resource"
)

type Customer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Facebook string `json:"facebook"`
	Status   string `json:"status"`
}

type CustomerForm struct {
	ID       int    `json:"id"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Facebook string `json:"facebook"`
	Status   string `json:"status" validate:"oneof=1 2"`
}

func Customers() resource.Spec[Customer, CustomerForm] {
	return resource.Spec[Customer, CustomerForm]{
		Name:  "customers",
		Label: "customer",
		Endpoints: resource.Endpoints{
			Resource: "customers", List: "getCustomers", Add: "addCustomer", Edit: "editCustomer", Disable: "disableCustomer",
		},
		NewForm: func() CustomerForm { return CustomerForm{Status: kennel.StatusActive} },
		FormFromRecord: func(r Customer) CustomerForm {
			return CustomerForm{ID: r.ID, Name: r.Name, Phone: r.Phone, Email: r.Email, Facebook: r.Facebook, Status: r.Status}
		},
		FormID:   func(f CustomerForm) int { return f.ID },
		RecordID: func(r Customer) int { return r.ID },
		Payload:  func(f CustomerForm) (any, error) { return f, nil },
		Filters:  []string{"name", "phone", "facebook"},
		Columns:  []string{"id", "name", "phone", "email", "facebook", "status"},
		Statuses: kennel.ActiveLabels,
	}
}

// RoleLabels traduce el rol del usuario.
var RoleLabels = map[string]string{
	auth.RoleAdmin: "admin",
	auth.RoleStaff: "staff",
}

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type UserForm struct {
	ID       int    `json:"id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required_without=ID"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"oneof=A S"`
	Status   string `json:"status" validate:"oneof=1 2"`
}

func Users() resource.Spec[User, UserForm] {
	return resource.Spec[User, UserForm]{
		Name:  "users",
		Label: "user",
		Endpoints: resource.Endpoints{
			Resource: "users", List: "getUserAll", Add: "addUser", Edit: "edit_user", Disable: "disable_user",
		},
		NewForm: func() UserForm { return UserForm{Role: auth.RoleStaff, Status: kennel.StatusActive} },
		// la contraseña nunca viaja del listado al form
		FormFromRecord: func(r User) UserForm {
			return UserForm{ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, Role: r.Role, Status: r.Status}
		},
		FormID:   func(f UserForm) int { return f.ID },
		RecordID: func(r User) int { return r.ID },
		Payload:  func(f UserForm) (any, error) { return f, nil },
		Filters:  []string{"name", "role"},
		Columns:  []string{"id", "name", "email", "phone", "role", "status"},
		Statuses: kennel.ActiveLabels,
	}
}
