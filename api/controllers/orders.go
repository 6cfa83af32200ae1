package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shoplane/shoplane-backend/api/responses"
	"github.com/shoplane/shoplane-backend/api/validators"
	ordersvc "github.com/shoplane/shoplane-backend/internal/orders"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
)

type orderRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Promocode       string `json:"promocode" validate:"max=20"`
	User            *uint  `json:"user"`
	Products        []uint `json:"products"`
}

// OrderList serves the REST collection with filters and pagination.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), filters, pagination.FromQuery(r.URL.Query()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func orderFiltersFromQuery(r *http.Request) (ordersvc.ListFilters, error) {
	var filters ordersvc.ListFilters

	filters.DeliveryAddress = validators.ParseQueryString(r, "delivery_address")
	filters.Promocode = validators.ParseQueryString(r, "promocode")
	filters.Search = r.URL.Query().Get("search")

	user, err := validators.ParseQueryUint(r, "user")
	if err != nil {
		return filters, err
	}
	filters.User = user

	if raw := validators.ParseQueryString(r, "created_at"); raw != nil {
		value, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid created_at filter")
		}
		filters.CreatedAt = &value
	}
	return filters, nil
}

// OrderGet serves a single order with its user and products.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCreate persists a new order with its product set.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			DeliveryAddress: payload.DeliveryAddress,
			Promocode:       payload.Promocode,
			User:            payload.User,
			Products:        payload.Products,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderUpdate reassigns the order's user and product set.
func OrderUpdate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), id, ordersvc.UpdateOrderInput{
			User:     payload.User,
			Products: payload.Products,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderDelete removes the order and its product links for good.
func OrderDelete(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// OrderExport serves every order under the "orders" key.
func OrderExport(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePlain(w, http.StatusOK, struct {
			Orders []ordersvc.ExportOrderDTO `json:"orders"`
		}{rows})
	}
}

// UserOrdersExport serves the cached per-user export under the "orders"
// key. The cache holds the serialized row array; the key wrapper is applied
// on every response.
func UserOrdersExport(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := svc.ExportForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePlain(w, http.StatusOK, struct {
			Orders json.RawMessage `json:"orders"`
		}{payload})
	}
}

// UserOrders lists a user's orders as structured rows.
func UserOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// OrderImportCSV loads orders from an uploaded CSV file.
func OrderImportCSV(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := validators.FormFile(r, "csv_file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		created, err := svc.ImportCSV(r.Context(), file)
		if err != nil {
			if logg != nil {
				ctx := logg.WithField(r.Context(), "rows_imported", created)
				logg.Warn(ctx, "orders.import.aborted")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int{"imported": created})
	}
}

// OrderUploadReceipt stores the uploaded receipt on the order.
func OrderUploadReceipt(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.FormFile(r, "receipt")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		order, err := svc.SaveReceipt(r.Context(), id, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
