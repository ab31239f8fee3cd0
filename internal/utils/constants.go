package utils

import "time"

// Application Constants
const (
	AppName    = "ggmarket"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "USD"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Reviews
	MinRating           = 1
	MaxRating           = 5
	MaxCommentLength    = 1000
	RatingStatsCacheTTL = 15 * time.Minute

	// Tickets
	MaxTicketSubjectLength = 200
	MaxTicketMessageLength = 5000

	// Products
	MaxProductTitleLength       = 150
	MaxProductDescriptionLength = 5000
	MaxProductImages            = 8
	ProductListCacheTTL         = 2 * time.Minute
	ProductThumbnailWidth       = 480

	// Payments
	DefaultCommissionRate = 0.05
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Authentication required"
	ErrForbidden        = "Insufficient permissions"
)
