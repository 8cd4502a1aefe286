package web

import (
	"time"

	"gameportal/config"
	"gameportal/service"

	"github.com/gin-gonic/gin"
)

// Server wires the HTTP surface onto the service layer.
type Server struct {
	users      service.UserService
	store      service.StoreService
	settlement service.SettlementService
	wallet     service.WalletService
	friends    service.FriendService
	auth       *Auth

	publicBaseURL string
}

// NewServer creates a Server over the given services
func NewServer(cfg *config.Config, users service.UserService, store service.StoreService, settlement service.SettlementService, wallet service.WalletService, friends service.FriendService) *Server {
	return &Server{
		users:         users,
		store:         store,
		settlement:    settlement,
		wallet:        wallet,
		friends:       friends,
		auth:          NewAuth(cfg.JWTSecret, 24*time.Hour),
		publicBaseURL: cfg.PublicBaseURL,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
	}

	api := router.Group("/api")
	api.Use(s.auth.Middleware())
	{
		api.GET("/me/summary", s.getSummary)
		api.GET("/profile", s.getProfile)
		api.PUT("/profile", s.updateProfile)
		api.PUT("/status", s.updateStatus)

		api.GET("/cart", s.listCart)
		api.POST("/cart", s.addToCart)
		api.DELETE("/cart/:gameID", s.removeFromCart)

		api.GET("/wishlist", s.listWishlist)
		api.POST("/wishlist", s.addToWishlist)
		api.DELETE("/wishlist/:gameID", s.removeFromWishlist)
		api.POST("/wishlist/:gameID/move-to-cart", s.moveToCart)

		api.GET("/library", s.listLibrary)
		api.GET("/transactions", s.listTransactions)

		api.GET("/checkout/quote", s.quoteCheckout)
		api.POST("/checkout/session", s.createCheckoutSession)
		api.GET("/checkout/confirm", s.confirmCheckout)
		api.POST("/topup/session", s.createTopUpSession)
		api.GET("/topup/confirm", s.confirmTopUp)

		api.GET("/friends", s.listFriends)
		api.GET("/friends/requests", s.listFriendRequests)
		api.POST("/friends/requests", s.sendFriendRequest)
		api.POST("/friends/requests/:id/accept", s.acceptFriendRequest)
		api.POST("/friends/requests/:id/decline", s.declineFriendRequest)
		api.DELETE("/friends/:friendID", s.removeFriend)
		api.POST("/friends/:friendID/block", s.blockUser)
		api.DELETE("/friends/:friendID/block", s.unblockUser)
		api.GET("/friends/:friendID/mutual", s.mutualFriends)
	}

	return router
}
