package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/handler"
	"github.com/iliyamo/car-rental-marketplace/internal/middleware"
	"github.com/iliyamo/car-rental-marketplace/internal/model"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public catalog. The cache middleware is
// applied to the catalog reads only; nothing authenticated is cached.
func RegisterRoutes(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)

	pub := e.Group("/api/user")
	if cacheMW != nil {
		pub.Use(cacheMW)
	}
	// Browse all available listings, optionally filtered by ?location=.
	pub.GET("/cars", p.ListCars)
	// Listing detail page.
	pub.GET("/cars/:id", p.GetCar)
}

// RegisterUser registers registration, session and profile endpoints
// under /api/user. Register/login/refresh/logout manage the token pair;
// /data requires a valid access token.
func RegisterUser(e *echo.Echo, a *handler.AuthHandler, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/user")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/logout-all", a.LogoutAll, authMW)
	g.GET("/data", a.Data, authMW)
}

// RegisterOwner registers the owner endpoints under /api/owner. All of
// them require authentication; the listing management ones additionally
// require the owner role. ChangeRole and UpdateImage are deliberately
// open to customers: the first is how a customer becomes an owner, the
// second manages any user's profile image.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/owner")
	g.Use(authMW)
	g.POST("/change-role", o.ChangeRole)
	g.POST("/update-image", o.UpdateImage)

	owners := g.Group("", middleware.RequireRole(model.RoleOwner))
	owners.POST("/add-car", o.AddCar)
	owners.GET("/cars", o.ListCars)
	owners.POST("/toggle-car", o.ToggleCar)
	owners.POST("/delete-car", o.DeleteCar)
	owners.GET("/dashboard", o.Dashboard)
}

// RegisterBookings registers the booking endpoints under /api/bookings.
// The availability search is public so guests can browse; everything
// else requires authentication. Owner-only enforcement for the owner
// listing happens inside the handler so the 403 carries the same
// success-flag body as other business failures.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, authMW echo.MiddlewareFunc) {
	g := e.Group("/api/bookings")
	g.POST("/check-availability", b.CheckAvailability)
	g.POST("/create", b.CreateBooking, authMW)
	g.GET("/user", b.GetUserBookings, authMW)
	g.GET("/owner", b.GetOwnerBookings, authMW)
	g.POST("/change-status", b.ChangeStatus, authMW)
}
