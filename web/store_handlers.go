package web

import (
	"net/http"

	"gameportal/models"
	"gameportal/service"

	"github.com/gin-gonic/gin"
)

type gameRequest struct {
	GameID  string `json:"game_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	GameURL string `json:"game_url"`
	Image   string `json:"image"`
}

func (r gameRequest) ref() service.GameRef {
	return service.GameRef{
		GameID:  r.GameID,
		Name:    r.Name,
		GameURL: r.GameURL,
		Image:   r.Image,
	}
}

func (s *Server) listCart(c *gin.Context) {
	items, err := s.store.ListCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfCart(items))
}

func (s *Server) addToCart(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	item, err := s.store.AddToCart(c.Request.Context(), currentUserID(c), req.ref())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewOfCart([]*models.CartItem{item})[0])
}

func (s *Server) removeFromCart(c *gin.Context) {
	if err := s.store.RemoveFromCart(c.Request.Context(), currentUserID(c), c.Param("gameID")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) listWishlist(c *gin.Context) {
	items, err := s.store.ListWishlist(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfWishlist(items))
}

func (s *Server) addToWishlist(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	item, err := s.store.AddToWishlist(c.Request.Context(), currentUserID(c), req.ref())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewOfWishlist([]*models.WishlistItem{item})[0])
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	if err := s.store.RemoveFromWishlist(c.Request.Context(), currentUserID(c), c.Param("gameID")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) moveToCart(c *gin.Context) {
	item, err := s.store.MoveToCart(c.Request.Context(), currentUserID(c), c.Param("gameID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfCart([]*models.CartItem{item})[0])
}

func (s *Server) listLibrary(c *gin.Context) {
	items, err := s.store.ListLibrary(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfLibrary(items))
}
