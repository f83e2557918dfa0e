package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

type PurchaseHandler struct {
	service ports.PurchaseService
}

func NewPurchaseHandler(service ports.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

type purchaseRequest struct {
	CardNumber string `json:"cardNumber" validate:"required,credit_card"`
	Expiry     string `json:"expiry"     validate:"required,expiry"`
	CVV        string `json:"cvv"        validate:"required,number,min=3,max=4"`
}

type purchaseResponse struct {
	Purchase *domain.Purchase `json:"purchase"`
	Message  string           `json:"message"`
}

// Purchase simulates buying a book. The card is validated and discarded.
//
// @Summary      Buy a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string           true   "Book ID"
// @Param        Idempotency-Key  header    string           false  "Replay protection key"
// @Param        body             body      purchaseRequest  true   "Card details"
// @Success      201              {object}  purchaseResponse
// @Failure      400              {object}  errorBody
// @Failure      401              {object}  errorBody
// @Failure      404              {object}  errorBody
// @Failure      409              {object}  errorBody
// @Router       /books/{id}/purchase [post]
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Purchase(c.Request().Context(), actor, c.Param("id"), ports.PurchaseInput{
		CardNumber:     req.CardNumber,
		Expiry:         req.Expiry,
		CVV:            req.CVV,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, purchaseResponse{Purchase: p, Message: "purchase completed"})
}
