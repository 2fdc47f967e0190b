package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"campus-booking-backend/config"
	"campus-booking-backend/internal/mailer"
	"campus-booking-backend/internal/mw"
	"campus-booking-backend/internal/notification"
	"campus-booking-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, m mailer.Service, pool *notification.WorkerPool, webpushOptions *webpush.Options, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, m, pool, webpushOptions, cfg)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, cfg.Server.RequestIPHeader)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Push subscription management is keyed by endpoint, not tenant.
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		tenant := api.Group("")
		tenant.Use(mw.TenantAuth(s))
		{
			tenant.GET("/resources", caching, handler.ListResources)
			tenant.POST("/resources", handler.CreateResource)
			tenant.GET("/resources/:id", handler.GetResource)
			tenant.PATCH("/resources/:id", handler.UpdateResource)
			tenant.DELETE("/resources/:id", handler.DeleteResource)
			tenant.GET("/resources/:id/availability", handler.CheckResourceAvailability)

			tenant.GET("/bookings", handler.ListBookings)
			tenant.POST("/bookings/session", handler.BookSession)
			tenant.POST("/bookings/recurring", handler.BookRecurring)
			tenant.DELETE("/bookings/recurring/:group_id", handler.CancelRecurringGroup)
			tenant.POST("/bookings/:id/transfer", handler.TransferBooking)
			tenant.POST("/bookings/smart-assignment", handler.SmartAssignment)

			tenant.GET("/resource-sets", caching, handler.ListResourceSets)
			tenant.POST("/resource-sets", handler.CreateResourceSet)
			tenant.DELETE("/resource-sets/:id", handler.DeleteResourceSet)

			tenant.GET("/staff", handler.ListStaff)
			tenant.POST("/staff", handler.CreateStaff)
			tenant.GET("/staff/available", handler.AvailableStaff)
			tenant.PATCH("/staff/:id", handler.UpdateStaff)
			tenant.DELETE("/staff/:id", handler.DeleteStaff)
			tenant.GET("/staff/:id/availability-summary", handler.StaffAvailabilitySummary)

			tenant.POST("/invitations", handler.CreateInvitation)
		}
	}

	return r
}
