package http

import (
	"log/slog"
	"net/http"

	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

// bindUserForm reads the user fields from a JSON or multipart body.
func bindUserForm(c *gin.Context) (UserForm, error) {
	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		return form, errInvalidBody
	}
	return form, nil
}

func (f UserForm) patch() services.UserPatch {
	return services.UserPatch{Name: f.Name, Email: f.Email, Role: f.Role}
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.users.Profile(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile retrieved", "user": u})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	form, err := bindUserForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	image, closeImage, err := formImage(c, "profileImage")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	u, err := h.users.UpdateProfile(c.Request.Context(), currentClaims(c).UserID, form.patch(), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": u})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), currentClaims(c).UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	warning, err := h.users.DeleteAccount(ctx, currentClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	token, _ := bearerToken(c)
	if err := h.auth.Logout(ctx, token, ""); err != nil {
		slog.WarnContext(ctx, "failed to revoke token of deleted account", "user_id", currentClaims(c).UserID, "error", err)
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"message": "account deleted"}, warning))
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "users retrieved", "users": users})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user retrieved", "user": u})
}

func (h *Handler) CreateUser(c *gin.Context) {
	form, err := bindUserForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	image, closeImage, err := formImage(c, "profileImage")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	in := services.UserInput{
		Name:     deref(form.Name),
		Email:    deref(form.Email),
		Password: form.Password,
	}
	if form.Role != nil {
		in.Role = *form.Role
	}
	u, err := h.users.Create(c.Request.Context(), in, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user": u})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	form, err := bindUserForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	image, closeImage, err := formImage(c, "profileImage")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	u, err := h.users.Update(c.Request.Context(), id, form.patch(), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": u})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	warning, err := h.users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"message": "user deleted"}, warning))
}
