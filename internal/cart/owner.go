package cart

import "github.com/google/uuid"

// Owner is the identity a cart belongs to: an authenticated account or
// an anonymous session token, never both.
type Owner struct {
	AccountID    uuid.UUID
	SessionToken string
}

// MemberOwner builds an Owner for an authenticated account.
func MemberOwner(accountID uuid.UUID) Owner {
	return Owner{AccountID: accountID}
}

// GuestOwner builds an Owner for an anonymous session.
func GuestOwner(sessionToken string) Owner {
	return Owner{SessionToken: sessionToken}
}

// IsMember reports whether the owner is an authenticated account.
func (o Owner) IsMember() bool {
	return o.AccountID != uuid.Nil
}

// Key returns the identity string used for cache keys.
func (o Owner) Key() string {
	if o.IsMember() {
		return o.AccountID.String()
	}
	return o.SessionToken
}

// Valid reports whether the owner carries exactly one identity.
func (o Owner) Valid() bool {
	if o.IsMember() {
		return o.SessionToken == ""
	}
	return o.SessionToken != ""
}
