package auth

// RoleID is the closed role enumeration driving every gate decision.
// Values other than admin and client are staff-type roles with no
// dedicated surface.
type RoleID int

const (
	RoleAdmin  RoleID = 1
	RoleClient RoleID = 2
)

// User is the public identity projected from the directory record.
// It contains facts only, no decisions, and never carries the
// directory's is_active flag or redirect_path. Instances are replaced
// wholesale on each resolution, never patched field by field.
type User struct {
	ID         int     `json:"id"`
	Email      string  `json:"email"`
	RoleCode   string  `json:"role_code"`
	RoleName   string  `json:"role_name"`
	RoleID     RoleID  `json:"role_id"`
	ClientID   *int    `json:"client_id,omitempty"`
	ClientName *string `json:"client_name,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.RoleID == RoleAdmin }

// IsClient reports whether the user holds the client role.
func (u *User) IsClient() bool { return u != nil && u.RoleID == RoleClient }
