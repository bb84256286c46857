package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/internal/interface/middleware"
	"github.com/oksasatya/go-pos-backoffice/pkg/response"
	"github.com/oksasatya/go-pos-backoffice/pkg/validation"
)

// ShopManager is the slice of ShopService the handler needs.
type ShopManager interface {
	CreateShop(ctx context.Context, in application.CreateShopInput) (*entity.Shop, error)
	UpdateShop(ctx context.Context, id int64, patch entity.ShopPatch) (*entity.Shop, error)
	DeleteShop(ctx context.Context, id int64) (bool, error)
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (bool, error)
	GetShop(ctx context.Context, id int64) (*entity.Shop, error)
	GetShopByEmail(ctx context.Context, email string) (*entity.Shop, error)
	GetShopByAccountID(ctx context.Context, accountID int64) (*entity.Shop, error)
	ListShops(ctx context.Context) ([]entity.Shop, error)
}

type ShopHandler struct {
	Svc    ShopManager
	Logger logrus.FieldLogger
}

func NewShopHandler(svc ShopManager, logger logrus.FieldLogger) *ShopHandler {
	return &ShopHandler{Svc: svc, Logger: logger}
}

type shopResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Balance       decimal.Decimal `json:"balance"`
	ContactPerson string          `json:"contact_person"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zip_code"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at"`
	UserID        *int64          `json:"user_id"`
	UserEmail     string          `json:"user_email,omitempty"`
}

func toShopResponse(s *entity.Shop) shopResponse {
	return shopResponse{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Balance:       s.Balance,
		ContactPerson: s.ContactPerson,
		City:          s.City,
		State:         s.State,
		ZipCode:       s.ZipCode,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		UserID:        s.AccountID,
		UserEmail:     s.AccountEmail,
	}
}

type createShopRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Email         string          `json:"email" binding:"required,email,max=100"`
	Password      string          `json:"password" binding:"required,pwd"`
	Phone         string          `json:"phone" binding:"omitempty,phone"`
	Address       string          `json:"address" binding:"omitempty,max=255"`
	ContactPerson string          `json:"contact_person" binding:"omitempty,max=100"`
	City          string          `json:"city" binding:"omitempty,max=100"`
	State         string          `json:"state" binding:"omitempty,max=100"`
	ZipCode       string          `json:"zip_code" binding:"omitempty,max=20"`
	Balance       decimal.Decimal `json:"balance"`
}

type updateShopRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Phone         *string          `json:"phone" binding:"omitempty,phone"`
	Address       *string          `json:"address" binding:"omitempty,max=255"`
	ContactPerson *string          `json:"contact_person" binding:"omitempty,max=100"`
	City          *string          `json:"city" binding:"omitempty,max=100"`
	State         *string          `json:"state" binding:"omitempty,max=100"`
	ZipCode       *string          `json:"zip_code" binding:"omitempty,max=20"`
	Balance       *decimal.Decimal `json:"balance"`
	IsActive      *bool            `json:"is_active"`
}

func (r updateShopRequest) patch() entity.ShopPatch {
	return entity.ShopPatch{
		Name:          r.Name,
		Phone:         r.Phone,
		Address:       r.Address,
		ContactPerson: r.ContactPerson,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		Balance:       r.Balance,
		IsActive:      r.IsActive,
	}
}

type balanceRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// List GET /api/shops
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.Svc.ListShops(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]shopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, toShopResponse(&shops[i]))
	}
	response.Success(c, http.StatusOK, out, "shops", gin.H{"count": len(out)})
}

// Get GET /api/shops/:id. A Shop-role caller may only read its own shop.
func (h *ShopHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	shop, err := h.Svc.GetShop(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.respondOwned(c, shop, "Shop not found")
}

// GetByEmail GET /api/shops/email/:email
func (h *ShopHandler) GetByEmail(c *gin.Context) {
	shop, err := h.Svc.GetShopByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.respondOwned(c, shop, "Shop not found")
}

// GetByUser GET /api/shops/user/:userId
func (h *ShopHandler) GetByUser(c *gin.Context) {
	accountID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if caller, _ := middleware.CurrentIdentity(c); caller != nil && caller.Role == entity.RoleShop && caller.ID != accountID {
		response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
		return
	}
	shop, err := h.Svc.GetShopByAccountID(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.respondOwned(c, shop, "Shop not found for user")
}

// respondOwned writes shop, hiding other shops from Shop-role callers.
func (h *ShopHandler) respondOwned(c *gin.Context, shop *entity.Shop, notFound string) {
	if shop == nil {
		response.Error[any](c, http.StatusNotFound, notFound, nil)
		return
	}
	if caller, _ := middleware.CurrentIdentity(c); caller != nil && caller.Role == entity.RoleShop {
		if shop.AccountID == nil || *shop.AccountID != caller.ID {
			response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
			return
		}
	}
	response.Success(c, http.StatusOK, toShopResponse(shop), "shop", nil)
}

// Create POST /api/shops
func (h *ShopHandler) Create(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	shop, err := h.Svc.CreateShop(c.Request.Context(), application.CreateShopInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Balance:       req.Balance,
		Password:      req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/api/shops/"+formatID(shop.ID))
	response.Success(c, http.StatusCreated, toShopResponse(shop), "shop created", nil)
}

// Update PUT /api/shops/:id
func (h *ShopHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	shop, err := h.Svc.UpdateShop(c.Request.Context(), id, req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if shop == nil {
		response.Error[any](c, http.StatusNotFound, "Shop not found", nil)
		return
	}
	response.Success(c, http.StatusOK, toShopResponse(shop), "shop updated", nil)
}

// Delete DELETE /api/shops/:id deactivates the shop and its account.
func (h *ShopHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	found, err := h.Svc.DeleteShop(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Error[any](c, http.StatusNotFound, "Shop not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "Shop deleted successfully", nil)
}

// AdjustBalance PATCH /api/shops/:id/balance
func (h *ShopHandler) AdjustBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	found, err := h.Svc.AdjustBalance(c.Request.Context(), id, *req.Amount)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Error[any](c, http.StatusNotFound, "Shop not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "Balance updated successfully", nil)
}

// Health GET /api/shops/health
func (h *ShopHandler) Health(c *gin.Context) { health("shops")(c) }
