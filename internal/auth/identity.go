package auth

import (
	"github.com/google/uuid"

	"cardvault/internal/errors"
	"cardvault/internal/model"
)

// Identity is the authenticated caller of a core operation. It is produced
// by the HTTP layer from verified JWT claims and threaded explicitly through
// every service call; the core never reads ambient request state.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// AuthorizeCardAccess gates self-service card operations: the identity must
// own the card. There is no admin bypass here; administrators act through the
// role-fenced admin API, and a transfer always requires the caller to own
// both cards regardless of role.
func AuthorizeCardAccess(identity Identity, card *model.Card) error {
	if card.OwnerID == identity.UserID {
		return nil
	}
	return errors.ErrForbidden
}
