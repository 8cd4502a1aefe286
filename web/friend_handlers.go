package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func (s *Server) listFriends(c *gin.Context) {
	friends, err := s.friends.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfFriends(friends))
}

func (s *Server) listFriendRequests(c *gin.Context) {
	requests, err := s.friends.ListIncomingRequests(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfRequests(requests))
}

type friendRequestBody struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (s *Server) sendFriendRequest(c *gin.Context) {
	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	result, err := s.friends.SendRequest(c.Request.Context(), currentUserID(c), req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"mutually_accepted": result.MutuallyAccepted,
		"status":            string(result.Friendship.Status),
	})
}

func (s *Server) acceptFriendRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.friends.Accept(c.Request.Context(), currentUserID(c), requestID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) declineFriendRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.friends.Decline(c.Request.Context(), currentUserID(c), requestID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) removeFriend(c *gin.Context) {
	friendID, ok := pathID(c, "friendID")
	if !ok {
		return
	}

	if err := s.friends.Remove(c.Request.Context(), currentUserID(c), friendID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) blockUser(c *gin.Context) {
	targetID, ok := pathID(c, "friendID")
	if !ok {
		return
	}

	if err := s.friends.Block(c.Request.Context(), currentUserID(c), targetID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) unblockUser(c *gin.Context) {
	targetID, ok := pathID(c, "friendID")
	if !ok {
		return
	}

	if err := s.friends.Unblock(c.Request.Context(), currentUserID(c), targetID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) mutualFriends(c *gin.Context) {
	otherID, ok := pathID(c, "friendID")
	if !ok {
		return
	}

	mutual, err := s.friends.MutualFriends(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfFriends(mutual))
}
