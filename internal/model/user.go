package model

// DefaultRole is assigned when the backend profile carries no role
const DefaultRole = "user"

// User represents the identity held by the session
type User struct {
	UserID     string         `json:"userId"`
	Phone      string         `json:"phone"`
	Email      *string        `json:"email"`
	Name       string         `json:"name"`
	RawProfile map[string]any `json:"rawProfile"`
}

// Clone returns a copy that shares nothing mutable with u
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Email != nil {
		email := *u.Email
		c.Email = &email
	}
	c.RawProfile = cloneMap(u.RawProfile)
	return &c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
