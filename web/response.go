package web

import (
	"errors"
	"net/http"

	"gameportal/service"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
// Anything unmapped is a 500 with a generic message so internals stay
// out of responses.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrEmailTaken):
		status, message = http.StatusConflict, "Email is already registered"
	case errors.Is(err, service.ErrEmptyCart):
		status, message = http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, service.ErrAlreadyInCart):
		status, message = http.StatusConflict, "Game is already in the cart"
	case errors.Is(err, service.ErrAlreadyWishlist):
		status, message = http.StatusConflict, "Game is already wishlisted"
	case errors.Is(err, service.ErrAlreadyOwned):
		status, message = http.StatusConflict, "Game is already owned"
	case errors.Is(err, service.ErrNotInWishlist):
		status, message = http.StatusNotFound, "Game is not in the wishlist"
	case errors.Is(err, service.ErrInsufficientOrbs):
		status, message = http.StatusPaymentRequired, "Insufficient Orbs balance"
	case errors.Is(err, service.ErrPaymentNotCompleted):
		status, message = http.StatusPaymentRequired, "Payment has not completed"
	case errors.Is(err, service.ErrSessionUserMismatch):
		status, message = http.StatusForbidden, "Checkout session belongs to another user"
	case errors.Is(err, service.ErrSelfFriendship):
		status, message = http.StatusBadRequest, "Cannot befriend yourself"
	case errors.Is(err, service.ErrDuplicateRequest):
		status, message = http.StatusConflict, "Friend request already sent"
	case errors.Is(err, service.ErrAlreadyFriends):
		status, message = http.StatusConflict, "Already friends"
	case errors.Is(err, service.ErrBlockedPair):
		status, message = http.StatusForbidden, "This user cannot be added"
	case errors.Is(err, service.ErrRequestNotFound):
		status, message = http.StatusNotFound, "Friend request not found"
	case errors.Is(err, service.ErrNotRequestee):
		status, message = http.StatusForbidden, "Only the recipient may act on this request"
	case errors.Is(err, service.ErrNotBlocked):
		status, message = http.StatusNotFound, "No block to remove"
	}

	respondError(c, status, message)
}
