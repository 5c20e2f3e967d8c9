package handler

import (
	"net/http"

	"github.com/giyimsepeti/storefront-system/internal/middleware"
	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/payment"
	"github.com/giyimsepeti/storefront-system/internal/service"
)

type orderItemRequest struct {
	ProductID string     `json:"productId"`
	Size      string     `json:"size"`
	Quantity  flexString `json:"quantity"`
}

type cardRequest struct {
	CardHolder  flexString `json:"cardHolder"`
	CardNumber  flexString `json:"cardNumber"`
	ExpiryMonth flexString `json:"expiryMonth"`
	ExpiryYear  flexString `json:"expiryYear"`
	CVV         flexString `json:"cvv"`
}

type createOrderRequest struct {
	Customer struct {
		FullName   string `json:"fullName"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		City       string `json:"city"`
		District   string `json:"district"`
		PostalCode string `json:"postalCode"`
	} `json:"customer"`
	Items         []orderItemRequest `json:"items"`
	PaymentMethod string             `json:"paymentMethod"`
	Payment       *cardRequest       `json:"payment"`
}

type createOrderResponse struct {
	Message        string            `json:"message"`
	OrderNo        string            `json:"orderNo"`
	Total          int               `json:"total"`
	TrackingStatus model.OrderStatus `json:"trackingStatus"`
	ApprovalCode   *string           `json:"approvalCode"`
}

// CreateOrder runs checkout for the authenticated user.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
		return
	}

	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := service.CreateOrderInput{
		Customer: service.CustomerInput{
			FullName:   req.Customer.FullName,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
			City:       req.Customer.City,
			District:   req.Customer.District,
			PostalCode: req.Customer.PostalCode,
		},
		PaymentMethod: req.PaymentMethod,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.CartLine{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity.Int(),
		})
	}
	if req.Payment != nil {
		in.Card = &payment.CardInput{
			CardHolder:  req.Payment.CardHolder.String(),
			CardNumber:  req.Payment.CardNumber.String(),
			ExpiryMonth: req.Payment.ExpiryMonth.String(),
			ExpiryYear:  req.Payment.ExpiryYear.String(),
			CVV:         req.Payment.CVV.String(),
		}
	}

	order, err := h.service.CreateOrder(r.Context(), user, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := createOrderResponse{
		Message:        "Siparis alindi.",
		OrderNo:        order.OrderNo,
		Total:          order.Total,
		TrackingStatus: order.TrackingStatus,
	}
	if order.Payment.ApprovalCode != "" {
		code := order.Payment.ApprovalCode
		resp.ApprovalCode = &code
	}
	writeJSON(w, http.StatusCreated, resp)
}

// MyOrders lists the authenticated user's orders, newest first.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
		return
	}

	orders, err := h.service.OrdersByUser(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// TrackOrder returns one of the caller's orders with its derived
// tracking status.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
		return
	}

	order, err := h.service.TrackOrder(r.Context(), user.ID, pathParam(r, "orderNo"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetOrder returns one of the caller's orders by number.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.TrackOrder(w, r)
}

// CancelOrder cancels one of the caller's orders and releases its stock.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
		return
	}

	order, err := h.service.CancelOrder(r.Context(), user.ID, pathParam(r, "orderNo"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Siparis basariyla iptal edildi.",
		"order":   order,
	})
}
