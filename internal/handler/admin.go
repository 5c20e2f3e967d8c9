package handler

import (
	"net/http"

	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/service"
)

// AdminListOrders returns every order in the system, newest first.
func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.AdminListOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// AdminUpdateOrderStatus sets the persisted status of an order.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.service.AdminUpdateOrderStatus(r.Context(), pathParam(r, "orderNo"), model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Siparis durumu guncellendi.",
		"order":   order,
	})
}

// AdminCancelOrder cancels any order, including delivered ones.
func (h *Handler) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.AdminCancelOrder(r.Context(), pathParam(r, "orderNo"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Siparis basariyla iptal edildi.",
		"order":   order,
	})
}

type productRequest struct {
	Name        *string     `json:"name"`
	Price       *flexString `json:"price"`
	OldPrice    *flexString `json:"oldPrice"`
	Category    *string     `json:"category"`
	Image       *string     `json:"image"`
	Description *string     `json:"description"`
	Sizes       []string    `json:"sizes"`
	Stock       *flexString `json:"stock"`
	Featured    *bool       `json:"featured"`
	New         *bool       `json:"new"`
}

func boolOrFalse(b *bool) bool {
	return b != nil && *b
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrZero(f *flexString) int {
	if f == nil {
		return 0
	}
	return f.Int()
}

// AdminCreateProduct adds a catalog item.
func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.ProductInput{
		Name:        strOrEmpty(req.Name),
		Price:       intOrZero(req.Price),
		OldPrice:    intOrZero(req.OldPrice),
		Category:    strOrEmpty(req.Category),
		Image:       strOrEmpty(req.Image),
		Description: strOrEmpty(req.Description),
		Sizes:       req.Sizes,
		Stock:       intOrZero(req.Stock),
		Featured:    boolOrFalse(req.Featured),
		New:         boolOrFalse(req.New),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Urun basariyla eklendi.",
		"product": product,
	})
}

// AdminUpdateProduct partially updates a catalog item.
func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		Sizes:       req.Sizes,
		Featured:    req.Featured,
		New:         req.New,
	}
	if req.Price != nil {
		n := req.Price.Int()
		update.Price = &n
	}
	if req.OldPrice != nil {
		n := req.OldPrice.Int()
		update.OldPrice = &n
	}
	if req.Stock != nil {
		n := req.Stock.Int()
		update.Stock = &n
	}

	product, err := h.service.UpdateProduct(r.Context(), pathParam(r, "id"), update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Urun basariyla guncellendi.",
		"product": product,
	})
}

// AdminDeleteProduct removes a catalog item.
func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), pathParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Urun basariyla silindi.")
}

type createAdminRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AdminCreateUser registers another administrator account.
func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.CreateAdminUser(r.Context(), service.CreateAdminInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin kullanici basariyla eklendi.",
		"user":    user.Public(),
	})
}

// AdminListUsers lists all accounts without password hashes.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
