package handlers

import (
	"errors"
	"net/http"

	"legaldocs-backend/middleware"
	"legaldocs-backend/models"
	"legaldocs-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for registration and authentication
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the request body for registering an account
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`

	// Lawyer fields
	BarCouncilNumber  *string `json:"bar_council_number"`
	PracticeAreas     *string `json:"practice_areas"`
	ExperienceYears   *int    `json:"experience_years"`
	CourtJurisdiction *string `json:"court_jurisdiction"`

	// Firm fields
	FirmName           *string `json:"firm_name"`
	RegistrationNumber *string `json:"registration_number"`
	EstablishedYear    *int    `json:"established_year"`
	Website            *string `json:"website"`
	LawyerCount        *int    `json:"lawyer_count"`

	// Shared address fields
	OfficeAddress *string `json:"office_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Pincode       *string `json:"pincode"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	h.register(c, "")
}

// RegisterLawyer handles POST /api/auth/register/lawyer
func (h *AuthHandler) RegisterLawyer(c *gin.Context) {
	h.register(c, models.RoleLawyer)
}

// RegisterFirm handles POST /api/auth/register/firm
func (h *AuthHandler) RegisterFirm(c *gin.Context) {
	h.register(c, models.RoleFirm)
}

func (h *AuthHandler) register(c *gin.Context, forcedRole models.UserRole) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	role := forcedRole
	if role == "" {
		role = models.UserRole(req.Role)
		if role == "" {
			role = models.RoleUser
		}
	}
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ROLE",
				"message": "Unknown role: " + req.Role,
			},
		})
		return
	}

	serviceReq := service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	switch role {
	case models.RoleLawyer:
		serviceReq.LawyerProfile = &models.LawyerProfile{
			BarCouncilNumber:  req.BarCouncilNumber,
			PracticeAreas:     req.PracticeAreas,
			ExperienceYears:   req.ExperienceYears,
			CourtJurisdiction: req.CourtJurisdiction,
			OfficeAddress:     req.OfficeAddress,
			City:              req.City,
			State:             req.State,
			Pincode:           req.Pincode,
		}
	case models.RoleFirm:
		firmName := ""
		if req.FirmName != nil {
			firmName = *req.FirmName
		}
		serviceReq.FirmProfile = &models.FirmProfile{
			FirmName:           firmName,
			RegistrationNumber: req.RegistrationNumber,
			EstablishedYear:    req.EstablishedYear,
			Website:            req.Website,
			OfficeAddress:      req.OfficeAddress,
			City:               req.City,
			State:              req.State,
			Pincode:            req.Pincode,
			LawyerCount:        req.LawyerCount,
			PracticeAreas:      req.PracticeAreas,
		}
	}

	result, err := h.authService.Register(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_TAKEN",
					"message": "Email is already registered",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REGISTRATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.User,
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		code := "INVALID_CREDENTIALS"
		if errors.Is(err, service.ErrInactiveUser) {
			status = http.StatusForbidden
			code = "ACCOUNT_DEACTIVATED"
		} else if !errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
			code = "LOGIN_FAILED"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":   user,
			"tokens": tokens,
		},
	})
}

// RefreshRequest represents the request body for refreshing tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REFRESH_TOKEN",
				"message": "Invalid or expired refresh token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tokens,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// drops its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Logged out"},
	})
}
