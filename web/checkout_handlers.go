package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) quoteCheckout(c *gin.Context) {
	orbs, _ := strconv.ParseInt(c.DefaultQuery("orbs", "0"), 10, 64)

	quote, err := s.settlement.Quote(c.Request.Context(), currentUserID(c), orbs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"lines":      viewOfCart(quote.Lines),
		"total":      quote.Total.StringFixed(2),
		"orbs_to_use": quote.OrbsToUse,
		"orbs_value": quote.OrbsValue.StringFixed(2),
		"cash_due":   quote.CashDue.StringFixed(2),
	})
}

type checkoutSessionRequest struct {
	OrbsToUse int64 `json:"orbs_to_use"`
}

func (s *Server) createCheckoutSession(c *gin.Context) {
	var req checkoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	successURL := s.publicBaseURL + "/api/checkout/confirm?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.publicBaseURL + "/cart"

	session, err := s.settlement.CreateCheckoutSession(c.Request.Context(), currentUserID(c), req.OrbsToUse, successURL, cancelURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if session.Settled {
		respondOK(c, gin.H{
			"settled": true,
			"result":  viewOfSettlement(session.Result),
		})
		return
	}

	respondOK(c, gin.H{
		"settled":      false,
		"session_id":   session.SessionID,
		"redirect_url": session.RedirectURL,
	})
}

func (s *Server) confirmCheckout(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.settlement.ConfirmCheckout(c.Request.Context(), currentUserID(c), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOfSettlement(result))
}

type topUpSessionRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (s *Server) createTopUpSession(c *gin.Context) {
	var req topUpSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		respondError(c, http.StatusBadRequest, "amount must be a positive decimal")
		return
	}

	successURL := s.publicBaseURL + "/api/topup/confirm?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.publicBaseURL + "/wallet"

	session, err := s.wallet.CreateTopUpSession(c.Request.Context(), currentUserID(c), amount, successURL, cancelURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"session_id":   session.SessionID,
		"redirect_url": session.RedirectURL,
	})
}

func (s *Server) confirmTopUp(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := s.wallet.ConfirmTopUp(c.Request.Context(), currentUserID(c), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"already_credited": result.AlreadyCredited,
		"transaction_id":   result.TransactionID,
		"orbs_added":       result.OrbsAdded,
		"new_balance":      result.NewBalance,
	})
}
