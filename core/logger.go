package core

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Staff roles carried by access tokens.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Identity is the authenticated staff member behind a request.
// Accounts live in the external auth service; only what the token carries is known here.
type Identity struct {
	ID       string
	Username string
	Email    string
	Roles    []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool {
	return id.HasRole(RoleAdmin)
}
