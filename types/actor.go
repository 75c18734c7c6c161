package types

// Actor is the authenticated caller of a core operation.
type Actor struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const (
	RoleUser      = "user"
	RoleDecorator = "decorator"
	RoleAdmin     = "admin"
)

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsDecorator() bool {
	return a.Role == RoleDecorator
}

// Anonymous reports whether the actor carries no identity
func (a Actor) Anonymous() bool {
	return a.Email == ""
}
