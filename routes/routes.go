package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-booking/controllers"
	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
)

type Options struct {
	Origins        []string
	AuthRatePerMin int
	Logger         *zap.Logger
}

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Session  *controllers.SessionController
	Room     *controllers.RoomController
	Booking  *controllers.BookingController
	Profile  *controllers.ProfileController
	Wishlist *controllers.WishlistController
}

func NewControllers(
	authSvc *services.AuthService,
	roomSvc *services.RoomService,
	bookingSvc *services.BookingService,
	profileSvc *services.ProfileService,
	wishlistSvc *services.WishlistService,
) Controllers {
	return Controllers{
		Auth:     controllers.NewAuthController(authSvc),
		Session:  controllers.NewSessionController(authSvc),
		Room:     controllers.NewRoomController(roomSvc),
		Booking:  controllers.NewBookingController(bookingSvc),
		Profile:  controllers.NewProfileController(profileSvc),
		Wishlist: controllers.NewWishlistController(wishlistSvc),
	}
}

func SetupRouter(ctl Controllers, authn middleware.Authenticator, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	if len(opts.Origins) == 0 {
		opts.Origins = []string{"*"}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(opts.Logger))

	allowCredentials := true
	for _, origin := range opts.Origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthRequired(authn)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			limited := auth.Group("", middleware.RateLimit(opts.AuthRatePerMin))
			limited.POST("/signup", ctl.Auth.SignUp)
			limited.POST("/signin", ctl.Auth.SignIn)

			auth.POST("/signout", requireAuth, ctl.Auth.SignOut)
			auth.GET("/me", requireAuth, ctl.Auth.Me)
			// websocket clients cannot set headers, so the token rides in the query
			auth.GET("/events", ctl.Session.Events)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Room.GetRooms)
			rooms.GET("/:id", ctl.Room.GetRoom)
			rooms.POST("", requireAuth, requireAdmin, ctl.Room.CreateRoom)
			rooms.PATCH("/:id/availability", requireAuth, requireAdmin, ctl.Room.SetAvailability)
		}

		bookings := api.Group("/bookings", requireAuth)
		{
			bookings.GET("", ctl.Booking.GetBookings)
			bookings.POST("", ctl.Booking.CreateBooking)
			bookings.POST("/:id/pay", ctl.Booking.ConfirmPayment)
		}

		profile := api.Group("/profile", requireAuth)
		{
			profile.GET("", ctl.Profile.GetProfile)
			profile.PATCH("", ctl.Profile.UpdateProfile)
		}

		wishlist := api.Group("/wishlist", requireAuth)
		{
			wishlist.GET("", ctl.Wishlist.GetWishlist)
			wishlist.POST("", ctl.Wishlist.AddToWishlist)
			wishlist.DELETE("/:id", ctl.Wishlist.RemoveFromWishlist)
		}
	}

	return r
}
