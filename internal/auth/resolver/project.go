package resolver

import (
	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/directory"
)

// Project maps an active directory record onto the public identity.
// Pure and total over well-formed active records; the resolver filters
// inactive and absent users before this is ever called. is_active and
// redirect_path are dropped here and never reach callers.
func Project(rec *directory.Record) *auth.User {
	return &auth.User{
		ID:         rec.UserID,
		Email:      rec.Email,
		RoleCode:   rec.RoleCode,
		RoleName:   rec.RoleName,
		RoleID:     auth.RoleID(rec.RoleID),
		ClientID:   rec.ClientID,
		ClientName: rec.ClientName,
	}
}
