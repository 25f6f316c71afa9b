package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/estate-api/internal/domain/entity"
	"github.com/yourusername/estate-api/internal/service"
	"github.com/yourusername/estate-api/pkg/auth"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService   *service.AuthService
	googleService *service.GoogleOAuthService
	verification  *service.VerificationService
	jwtService    *auth.JWTService

	// exposeCode includes issued verification codes in responses.
	// Development convenience; off in production.
	exposeCode bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService *service.AuthService,
	googleService *service.GoogleOAuthService,
	verification *service.VerificationService,
	jwtService *auth.JWTService,
	exposeCode bool,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		verification:  verification,
		jwtService:    jwtService,
		exposeCode:    exposeCode,
	}
}

// SignUpRequest represents a direct registration request.
type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// SignInRequest represents a login request.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignInRequest carries the Google ID token from the SPA.
type GoogleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SendCodeRequest asks for a verification code for an email.
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyRegistrationRequest completes a registration with a code.
type VerifyRegistrationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6,numeric"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// VerifyPasswordResetRequest completes a password reset with a code.
type VerifyPasswordResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// SignUp handles direct registration without email verification.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.authService.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("[AuthHandler] user ID=%d (%s) registered", user.ID, user.Email)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// SignIn handles password login and sets the access-token cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// GoogleSignIn verifies a Google ID token and signs the user in, creating an
// account when the email is new.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.googleService.SignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

// SignOut clears the access-token cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.jwtService.ClearAccessTokenCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User has been logged out!"})
}

// SendRegistrationCode issues a registration verification code.
func (h *AuthHandler) SendRegistrationCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	code, err := h.verification.IssueRegistrationCode(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.codeIssued(c, code)
}

// VerifyRegistrationCode consumes a registration code and creates the
// account, signing the user in.
func (h *AuthHandler) VerifyRegistrationCode(c *gin.Context) {
	var req VerifyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.authService.RegisterWithCode(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("[AuthHandler] user ID=%d (%s) registered via verification code", user.ID, user.Email)
	h.issueSession(c, user, http.StatusCreated)
}

// SendPasswordResetCode issues a password-reset verification code.
func (h *AuthHandler) SendPasswordResetCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	code, err := h.verification.IssuePasswordResetCode(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.codeIssued(c, code)
}

// VerifyPasswordResetCode consumes a reset code and updates the password.
func (h *AuthHandler) VerifyPasswordResetCode(c *gin.Context) {
	var req VerifyPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	err := h.authService.ResetPasswordWithCode(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

// issueSession generates an access token, sets the cookie and writes the
// user payload.
func (h *AuthHandler) issueSession(c *gin.Context, user *entity.User, status int) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.jwtService.SetAccessTokenCookie(c.Writer, token)

	c.JSON(status, gin.H{
		"success":     true,
		"user":        user,
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   int(h.jwtService.TokenLifetime().Seconds()),
	})
}

// codeIssued reports a successful issuance. Delivery already happened
// best-effort; the code itself is only echoed when configured to.
func (h *AuthHandler) codeIssued(c *gin.Context, code string) {
	resp := gin.H{"success": true, "message": "Verification code sent"}
	if h.exposeCode {
		resp["development_code"] = code
	}
	c.JSON(http.StatusOK, resp)
}
