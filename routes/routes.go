package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/controllers"
	"storefront/middleware"
)

// RegisterRoutes wires every controller into the gin engine.
func RegisterRoutes(
	r *gin.Engine,
	auth *controllers.AuthController,
	products *controllers.ProductController,
	orders *controllers.OrderController,
	users *controllers.UserController,
	uploads *controllers.UploadController,
	jwtSecret []byte,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimitMiddleware())
	authRoutes.POST("/register", auth.Register)
	authRoutes.POST("/login", auth.Login)

	// Storefront catalog is public; product management is admin-only.
	productRoutes := r.Group("/products")
	productRoutes.GET("", products.ListProducts)
	productRoutes.GET("/:id", products.GetProduct)

	productAdmin := r.Group("/products")
	productAdmin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	productAdmin.POST("", products.CreateProduct)
	productAdmin.PUT("/:id", products.UpdateProduct)
	productAdmin.DELETE("/:id", products.DeleteProduct)

	orderRoutes := r.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	orderRoutes.GET("", orders.GetOrders)
	orderRoutes.POST("", orders.CreateOrder)
	orderRoutes.GET("/:id", orders.GetOrderByID)
	orderRoutes.POST("/:id/receipt", orders.SendReceipt)

	orderAdmin := r.Group("/orders")
	orderAdmin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	orderAdmin.PUT("/:id", orders.UpdateOrderStatus)
	orderAdmin.DELETE("/:id", orders.DeleteOrder)

	userRoutes := r.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	userRoutes.GET("", users.ListUsers)
	userRoutes.PUT("/:id", users.UpdateUser)
	userRoutes.DELETE("/:id", users.DeleteUser)

	profileRoutes := r.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	profileRoutes.PUT("", users.UpdateProfile)

	uploadRoutes := r.Group("/uploads")
	uploadRoutes.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
	uploadRoutes.POST("/presign", uploads.PresignUpload)
}
