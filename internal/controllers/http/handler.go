package http

import (
	"net/http"
	"strconv"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Products *services.ProductService
	Carts    *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

type Handler struct {
	auth      *services.AuthService
	users     *services.UserService
	products  *services.ProductService
	carts     *services.CartService
	checkout  *services.CheckoutService
	orders    *services.OrderService
	limiter   *IPRateLimiter
	uploadDir string
}

func NewHandler(s Services, uploadDir string) *Handler {
	return &Handler{
		auth:      s.Auth,
		users:     s.Users,
		products:  s.Products,
		carts:     s.Carts,
		checkout:  s.Checkout,
		orders:    s.Orders,
		limiter:   NewIPRateLimiter(LoginRate, LoginBurst),
		uploadDir: uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := h.limiter.Middleware()
	r.POST("/auth/register", limited, h.Register)
	r.POST("/auth/login", limited, h.Login)
	r.POST("/auth/refresh", h.Refresh)

	a := r.Group("", h.Authenticate())

	a.POST("/auth/logout", Authorize(auth.ResourceSession, auth.ActionLogout), h.Logout)

	a.GET("/user/profile", Authorize(auth.ResourceProfile, auth.ActionRead), h.GetProfile)
	a.PATCH("/user/profile", Authorize(auth.ResourceProfile, auth.ActionUpdate), h.UpdateProfile)
	a.PATCH("/user/password", Authorize(auth.ResourceProfile, auth.ActionUpdate), h.ChangePassword)
	a.DELETE("/user/delete", Authorize(auth.ResourceProfile, auth.ActionDelete), h.DeleteAccount)

	a.GET("/admin", Authorize(auth.ResourceUsers, auth.ActionRead), h.ListUsers)
	a.POST("/admin", Authorize(auth.ResourceUsers, auth.ActionWrite), h.CreateUser)
	a.GET("/admin/user/:id", Authorize(auth.ResourceUsers, auth.ActionRead), h.GetUser)
	a.PATCH("/admin/user/:id", Authorize(auth.ResourceUsers, auth.ActionWrite), h.UpdateUser)
	a.PATCH("/admin/password/:id", Authorize(auth.ResourceUsers, auth.ActionWrite), h.ResetPassword)
	a.DELETE("/admin/delete/:id", Authorize(auth.ResourceUsers, auth.ActionDelete), h.DeleteUser)

	a.GET("/products", Authorize(auth.ResourceProducts, auth.ActionRead), h.ListProducts)
	a.GET("/products/:id", Authorize(auth.ResourceProducts, auth.ActionRead), h.GetProduct)
	a.POST("/products", Authorize(auth.ResourceProducts, auth.ActionWrite), h.CreateProduct)
	a.PUT("/products/:id", Authorize(auth.ResourceProducts, auth.ActionWrite), h.UpdateProduct)
	a.DELETE("/products/:id", Authorize(auth.ResourceProducts, auth.ActionDelete), h.DeleteProduct)

	a.GET("/cart", Authorize(auth.ResourceCart, auth.ActionRead), h.GetCart)
	a.POST("/cart", Authorize(auth.ResourceCart, auth.ActionWrite), h.AddToCart)
	a.PATCH("/cart/:itemId", Authorize(auth.ResourceCart, auth.ActionWrite), h.UpdateCartItem)
	a.DELETE("/cart/:itemId", Authorize(auth.ResourceCart, auth.ActionWrite), h.RemoveCartItem)

	a.POST("/orders/checkout", Authorize(auth.ResourceOrders, auth.ActionCheckout), h.Checkout)
	a.GET("/orders", Authorize(auth.ResourceOrders, auth.ActionReadOwn), h.ListMyOrders)
	a.GET("/orders/admin", Authorize(auth.ResourceOrders, auth.ActionReadAll), h.ListAllOrders)
	a.GET("/orders/:id", Authorize(auth.ResourceOrders, auth.ActionReadOwn), h.GetOrder)
	a.PATCH("/orders/:id/status", Authorize(auth.ResourceOrders, auth.ActionUpdate), h.UpdateOrderStatus)
	a.DELETE("/orders/:id", Authorize(auth.ResourceOrders, auth.ActionDelete), h.DeleteOrder)

	uploads := a.Group("/uploads", Authorize(auth.ResourceUploads, auth.ActionRead))
	uploads.Static("/", h.uploadDir)
}

func parseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Validation("invalid %s", name)
	}
	return id, nil
}

// withWarning adds the warning field only when there is something to report.
func withWarning(body gin.H, warning string) gin.H {
	if warning != "" {
		body["warning"] = warning
	}
	return body
}
