// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/giyimsepeti/storefront-system/internal/middleware"
	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/repository"
	"github.com/giyimsepeti/storefront-system/internal/service"
)

// Service is the business logic contract used by the HTTP handlers.
type Service interface {
	RegisterUser(ctx context.Context, in service.RegisterInput) (*model.User, *model.Session, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, token string) error

	ListProducts(ctx context.Context, filter service.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in service.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateAdminUser(ctx context.Context, in service.CreateAdminInput) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.PublicUser, error)

	CreateOrder(ctx context.Context, user *model.User, in service.CreateOrderInput) (*model.TrackedOrder, error)
	OrdersByUser(ctx context.Context, userID string) ([]model.TrackedOrder, error)
	TrackOrder(ctx context.Context, userID, orderNo string) (*model.TrackedOrder, error)
	CancelOrder(ctx context.Context, userID, orderNo string) (*model.TrackedOrder, error)
	AdminListOrders(ctx context.Context) ([]model.TrackedOrder, error)
	AdminCancelOrder(ctx context.Context, orderNo string) (*model.TrackedOrder, error)
	AdminUpdateOrderStatus(ctx context.Context, orderNo string, status model.OrderStatus) (*model.TrackedOrder, error)
}

// Handler implements the HTTP handlers of the storefront API.
type Handler struct {
	service Service
	logger  *zap.Logger
	auth    *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler instance.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		auth:    auth,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service and repository errors onto the HTTP surface.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var orderErr *service.OrderError
	if errors.As(err, &orderErr) {
		if len(orderErr.MissingFields) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message":       orderErr.Message,
				"missingFields": orderErr.MissingFields,
			})
			return
		}
		writeMessage(w, http.StatusBadRequest, orderErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrMissingRegisterFields),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrMissingProductFields):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrUserExists):
		writeMessage(w, http.StatusConflict, "Bu e-posta ile kayitli bir hesap var.")
	case errors.Is(err, repository.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, "Urun bulunamadi.")
	case errors.Is(err, repository.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Siparis bulunamadi.")
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Beklenmeyen bir hata olustu.")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Gecersiz istek govdesi.")
		return false
	}
	return true
}

// flexString decodes JSON strings, numbers and null into a string, so
// loosely typed clients can submit either form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// Int parses the value as an integer; anything unparseable is zero.
func (f flexString) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return n
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// Register creates a customer account and opens a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, session, err := h.service.RegisterUser(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "Uyelik basarili.",
		Token:   session.Token,
		User:    user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, session, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Giris basarili.",
		Token:   session.Token,
		User:    user.Public(),
	})
}

// Logout removes the caller's session, if any.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		h.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Oturum sonlandirildi.")
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.PublicUser{"user": user.Public()})
}

// ListProducts returns the catalog, optionally filtered and sorted.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products, err := h.service.ListProducts(r.Context(), service.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns a single catalog item.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
