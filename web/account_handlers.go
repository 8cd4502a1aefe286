package web

import (
	"net/http"
	"strconv"

	"gameportal/models"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authData struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := s.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondCreated(c, authData{Token: token, User: viewOfUser(user)})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := s.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondOK(c, authData{Token: token, User: viewOfUser(user)})
}

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.users.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfUser(user))
}

type updateProfileRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	AvatarURL *string `json:"avatar_url"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	user, err := s.users.UpdateProfile(c.Request.Context(), currentUserID(c), req.Username, req.AvatarURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfUser(user))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	status := models.UserStatus(req.Status)
	if !status.Valid() {
		respondError(c, http.StatusBadRequest, "Unknown status: "+req.Status)
		return
	}

	if err := s.users.UpdateStatus(c.Request.Context(), currentUserID(c), status); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"status": req.Status})
}

func (s *Server) listTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, err := s.wallet.GetTransactions(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfTransactions(txns))
}
