package service

import (
	"errors"
)

// Domain errors surfaced to callers. The web layer maps these onto HTTP
// statuses; anything unrecognized becomes a generic 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmptyCart        = errors.New("cart is empty")
	ErrAlreadyInCart    = errors.New("game is already in the cart")
	ErrAlreadyWishlist  = errors.New("game is already on the wishlist")
	ErrAlreadyOwned     = errors.New("game is already in the library")
	ErrNotInWishlist    = errors.New("game is not on the wishlist")
	ErrInsufficientOrbs = errors.New("insufficient Orbs balance")

	ErrPaymentNotCompleted = errors.New("payment has not been completed")
	ErrSessionUserMismatch = errors.New("checkout session does not belong to this user")

	ErrSelfFriendship     = errors.New("cannot befriend yourself")
	ErrDuplicateRequest   = errors.New("friend request already sent")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrBlockedPair        = errors.New("a block exists between these users")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrNotRequestee       = errors.New("only the recipient can act on this request")
	ErrNotBlocked         = errors.New("no block to remove")
)
