package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/meridianpress/meridian-backend/api/responses"
	"github.com/meridianpress/meridian-backend/api/validators"
	cartsvc "github.com/meridianpress/meridian-backend/internal/cart"
	pkgerrors "github.com/meridianpress/meridian-backend/pkg/errors"
	"github.com/meridianpress/meridian-backend/pkg/logger"
)

type addItemRequest struct {
	ID          string          `json:"id" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	CoverImage  string          `json:"cover_image"`
	CheckoutURL string          `json:"checkout_url"`
}

type setOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type cartView struct {
	Items []cartsvc.Item  `json:"items"`
	Open  bool            `json:"open"`
	Total decimal.Decimal `json:"total"`
}

func newCartView(state *cartsvc.State) cartView {
	return cartView{
		Items: state.Items,
		Open:  state.Open,
		Total: state.Total(),
	}
}

// CartFetch returns the visitor's persisted cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Load(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartAddItem puts a magazine issue in the cart and opens the drawer.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Add(r.Context(), id, cartsvc.Item{
			ID:          payload.ID,
			Title:       payload.Title,
			Price:       payload.Price,
			CoverImage:  payload.CoverImage,
			CheckoutURL: payload.CheckoutURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartRemoveItem drops an issue from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}
		state, err := svc.Remove(r.Context(), id, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Clear(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartSetOpen persists the drawer visibility flag.
func CartSetOpen(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := visitorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setOpenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.SetOpen(r.Context(), id, *payload.Open)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}
