package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "storefront-backend/internal/service/auth"
)

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func sendOTPHandler(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req otpRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}
		if err := svc.RequestOTP(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
	}
}

func verifyOTPHandler(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req otpVerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP required"})
			return
		}
		token, user, err := svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verified", "token": token, "user": user})
	}
}
