package models

import "errors"

// EvergreenAll disables the evergreen filter.
const EvergreenAll = "Alle"

// FilterSelection holds the user's current attribute constraints.
// An empty slice imposes no constraint on its attribute.
type FilterSelection struct {
	Location        []string `json:"standort"`
	ClimbingType    []string `json:"klettertyp"`
	Water           []string `json:"wasserbedarf"`
	WinterHardiness []string `json:"winterhaerte"`
	Soil            []string `json:"boden"`
	Growth          []string `json:"wuchsstaerke"`
	// Evergreen is one of EvergreenAll, "Ja" or "Nein".
	Evergreen      string `json:"immergruen"`
	InsectFriendly bool   `json:"insekten"`
}

// NewFilterSelection returns a selection with every field at its default.
func NewFilterSelection() FilterSelection {
	return FilterSelection{Evergreen: EvergreenAll}
}

// Reset restores every field to its default value.
func (f *FilterSelection) Reset() {
	*f = NewFilterSelection()
}

// IsEmpty reports whether the selection constrains nothing.
func (f FilterSelection) IsEmpty() bool {
	return len(f.Location) == 0 &&
		len(f.ClimbingType) == 0 &&
		len(f.Water) == 0 &&
		len(f.WinterHardiness) == 0 &&
		len(f.Soil) == 0 &&
		len(f.Growth) == 0 &&
		(f.Evergreen == "" || f.Evergreen == EvergreenAll) &&
		!f.InsectFriendly
}

// Role distinguishes guest accounts from full accounts.
type Role string

const (
	// RoleGuest may browse but not export.
	RoleGuest Role = "guest"
	// RoleFull may browse and export.
	RoleFull Role = "full"
)

// CanExport reports whether the role may see and use the exporters.
func (r Role) CanExport() bool {
	return r == RoleFull
}

// Credential is a stored login secret. Secret is either a plain password
// or a bcrypt hash depending on the credential store.
type Credential struct {
	Login  string
	Secret []byte
	Role   Role
}

// Session holds authentication state and the filter selection of one
// browser session.
type Session struct {
	// ID is the opaque cookie value identifying the session.
	ID       string
	LoggedIn bool
	Username string
	Role     Role
	Filters  FilterSelection
}

// NewSession returns an anonymous session with default filters.
func NewSession(id string) *Session {
	return &Session{ID: id, Filters: NewFilterSelection()}
}

// Login moves the session to the authenticated state.
func (s *Session) Login(username string, role Role) {
	s.LoggedIn = true
	s.Username = username
	s.Role = role
}

// Logout clears identity and interactive state.
func (s *Session) Logout() {
	s.LoggedIn = false
	s.Username = ""
	s.Role = ""
	s.Filters.Reset()
}

// CanExport reports whether an authenticated non-guest user owns the session.
func (s *Session) CanExport() bool {
	return s != nil && s.LoggedIn && s.Role.CanExport()
}

// ErrInvalidCredentials is returned when a login/password pair does not
// match any stored credential.
var ErrInvalidCredentials = errors.New("invalid credentials")
