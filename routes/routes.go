package routes

import (
	"net/http"

	userRepo "agrimandi/database/repository/user"
	"agrimandi/handlers"
	"agrimandi/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers and shared repositories the routes need.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	User  *handlers.UserHandler
	KYC   *handlers.KYCHandler
	Offer *handlers.OfferHandler
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterUserHandler)
		api.POST("/login", hb.User.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.User.GetMeHandler)
		api.DELETE("/me", hb.User.DeleteUserHandler)
	}
}

// RegisterKYCRoutes registers the identity verification endpoints.
func RegisterKYCRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/kyc")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/pan/verify", hb.KYC.VerifyPANHandler)
		api.POST("/aadhaar/session", hb.KYC.CreateAadhaarSessionHandler)
		api.GET("/aadhaar/session/:sessionID", hb.KYC.AadhaarSessionStatusHandler)
		api.DELETE("/aadhaar/session/:sessionID", hb.KYC.CancelAadhaarSessionHandler)
		api.POST("/aadhaar/ocr", hb.KYC.VerifyAadhaarOCRHandler)
	}
}

// RegisterOfferRoutes registers the trade offer endpoints.
func RegisterOfferRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/offers")
	{
		api.GET("", hb.Offer.ListOffersHandler)
		api.GET("/:id", hb.Offer.GetOfferHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("", hb.Offer.CreateOfferHandler)
		protected.GET("/mine/list", hb.Offer.ListMyOffersHandler)
		protected.DELETE("/:id", hb.Offer.DeleteOfferHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Agrimandi"})
	})
}
