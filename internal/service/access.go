package service

import "promptstore/internal/models"

// Policy decides whether a user may act on a resource owned by ownerID.
type Policy func(user *models.User, ownerID int64) bool

// OwnerOnly allows only the resource owner.
func OwnerOnly() Policy {
	return func(user *models.User, ownerID int64) bool {
		return user.ID == ownerID
	}
}

// OwnerOrRole allows the resource owner or any user carrying the role.
func OwnerOrRole(role string) Policy {
	return func(user *models.User, ownerID int64) bool {
		return user.ID == ownerID || user.Role == role
	}
}

// Authorize applies a policy and returns ErrForbidden when it denies.
func Authorize(user *models.User, ownerID int64, allow Policy) error {
	if user == nil || !allow(user, ownerID) {
		return ErrForbidden
	}
	return nil
}
