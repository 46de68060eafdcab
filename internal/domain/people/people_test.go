package people

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestUsers_EditNeverCopiesPassword(t *testing.T) {
	s := Users()
	form := s.FormFromRecord(User{ID: 5, Name: "Mai", Email: "mai@farm.test", Role: "A", Status: "1"})
	require.Empty(t, form.Password)
	require.Equal(t, UserForm{ID: 5, Name: "Mai", Email: "mai@farm.test", Role: "A", Status: "1"}, form)

	body, err := s.Payload(form)
	require.NoError(t, err)
	raw, _ := json.Marshal(body)
	require.JSONEq(t, `{"id":5,"name":"Mai","email":"mai@farm.test","password":"","phone":"","role":"A","status":"1"}`, string(raw))
}

func TestUserForm_PasswordRequiredOnlyOnCreate(t *testing.T) {
	v := validator.New()
	create := Users().NewForm()
	create.Name, create.Email = "New", "new@farm.test"
	require.Error(t, v.Struct(create))

	create.Password = "secret"
	require.NoError(t, v.Struct(create))

	update := UserForm{ID: 3, Name: "Old", Email: "old@farm.test", Role: "S", Status: "1"}
	require.NoError(t, v.Struct(update))
}

func TestCustomers_FiltersAndDefaults(t *testing.T) {
	s := Customers()
	require.Equal(t, []string{"name", "phone", "facebook"}, s.Filters)
	require.Equal(t, "1", s.NewForm().Status)
	require.Equal(t, "/api/v1/customers/disableCustomer/2", s.Endpoints.DisablePath(2))

	rec := Customer{ID: 2, Name: "Ann", Phone: "1", Email: "a@b.co", Facebook: "ann.fb", Status: "1"}
	form := s.FormFromRecord(rec)
	require.Equal(t, CustomerForm(rec), form)
}
