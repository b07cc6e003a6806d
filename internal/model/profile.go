package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Profile is the user object returned by the backend after login or OTP verification
type Profile struct {
	ID       string
	Name     string
	Phone    string
	Email    *string
	Verified int    // user_verify.isverified, 1 when OTP was completed
	Role     string // userRole.role, empty when absent
	Raw      map[string]any
}

// ProfileUpdate carries the fields to merge into the session user.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string        `json:"name"`
	Phone *string        `json:"phone"`
	Email *string        `json:"email"`
	Raw   map[string]any `json:"-"`
}

// ParseProfile decodes a backend user object
func ParseProfile(data []byte) (Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if raw == nil {
		return Profile{}, fmt.Errorf("failed to decode profile: not an object")
	}
	return ProfileFromMap(raw), nil
}

// ProfileFromMap reads the known profile fields out of a decoded user object
func ProfileFromMap(raw map[string]any) Profile {
	p := Profile{
		ID:   scalarString(raw["id"]),
		Name: scalarString(raw["name"]),
		Raw:  raw,
	}

	p.Phone = scalarString(raw["nomor_hp"])
	if p.Phone == "" {
		p.Phone = scalarString(raw["phone"])
	}

	if email := scalarString(raw["email"]); email != "" {
		p.Email = &email
	}

	if verify, ok := raw["user_verify"].(map[string]any); ok {
		p.Verified = flag(verify["isverified"])
	}
	if role, ok := raw["userRole"].(map[string]any); ok {
		p.Role = scalarString(role["role"])
	}

	return p
}

// Update builds a ProfileUpdate from the non-empty fields of p
func (p Profile) Update() ProfileUpdate {
	var u ProfileUpdate
	if p.Name != "" {
		u.Name = &p.Name
	}
	if p.Phone != "" {
		u.Phone = &p.Phone
	}
	u.Email = p.Email
	u.Raw = p.Raw
	return u
}

// UpdateFromMap builds a partial update from a decoded JSON object.
// Keys other than name, nomor_hp/phone and email only land in Raw.
func UpdateFromMap(raw map[string]any) ProfileUpdate {
	u := ProfileUpdate{Raw: raw}
	if v, ok := raw["name"]; ok {
		name := scalarString(v)
		u.Name = &name
	}
	for _, key := range []string{"nomor_hp", "phone"} {
		if v, ok := raw[key]; ok {
			phone := scalarString(v)
			u.Phone = &phone
			break
		}
	}
	if v, ok := raw["email"]; ok && v != nil {
		email := scalarString(v)
		u.Email = &email
	}
	return u
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// flag accepts true/1/"1"/"true"; anything else is 0
func flag(v any) int {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
	case float64:
		if x != 0 {
			return 1
		}
	case json.Number:
		if f, err := x.Float64(); err == nil && f != 0 {
			return 1
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if s == "true" {
			return 1
		}
		if n, err := strconv.Atoi(s); err == nil && n != 0 {
			return 1
		}
	}
	return 0
}
