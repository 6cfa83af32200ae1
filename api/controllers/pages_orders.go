package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shoplane/shoplane-backend/api/views"
	ordersvc "github.com/shoplane/shoplane-backend/internal/orders"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
)

// OrderListPage renders the order listing.
func OrderListPage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ordersvc.ListFilters{}, pagination.FromQuery(r.URL.Query()))
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		renderPage(w, r, renderer, logg, http.StatusOK, "order_list.html", map[string]any{"Orders": items})
	}
}

// OrderDetailPage renders one order.
func OrderDetailPage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		renderPage(w, r, renderer, logg, http.StatusOK, "order_detail.html", map[string]any{"Order": order})
	}
}

type orderForm struct {
	DeliveryAddress string
	Promocode       string
	User            *uint
	Products        []uint
}

func parseOrderForm(r *http.Request) (orderForm, string) {
	if err := r.ParseForm(); err != nil {
		return orderForm{}, "invalid form submission"
	}

	form := orderForm{
		DeliveryAddress: strings.TrimSpace(r.PostFormValue("delivery_address")),
		Promocode:       strings.TrimSpace(r.PostFormValue("promocode")),
	}
	if form.DeliveryAddress == "" {
		return form, "delivery address is required"
	}
	if len(form.Promocode) > 20 {
		return form, "promocode must be at most 20 characters"
	}

	if raw := strings.TrimSpace(r.PostFormValue("user")); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return form, "user must be a numeric id"
		}
		user := uint(value)
		form.User = &user
	}

	for _, line := range strings.Fields(r.PostFormValue("products")) {
		value, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return form, "product ids must be numeric"
		}
		form.Products = append(form.Products, uint(value))
	}
	return form, ""
}

// OrderCreatePage renders the creation form and handles its submission.
func OrderCreatePage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "order_form.html", map[string]any{})
			return
		}

		form, problem := parseOrderForm(r)
		if problem != "" {
			renderPage(w, r, renderer, logg, http.StatusUnprocessableEntity, "order_form.html", map[string]any{"Error": problem})
			return
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			DeliveryAddress: form.DeliveryAddress,
			Promocode:       form.Promocode,
			User:            form.User,
			Products:        form.Products,
		})
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d/", order.PK), http.StatusSeeOther)
	}
}

// OrderUpdatePage renders the edit form and handles its submission.
func OrderUpdatePage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}

		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "order_form.html", map[string]any{
				"Order":      order,
				"ProductIDs": order.Products,
			})
			return
		}

		form, problem := parseOrderForm(r)
		if problem != "" {
			renderPage(w, r, renderer, logg, http.StatusUnprocessableEntity, "order_form.html", map[string]any{
				"Order":      order,
				"ProductIDs": order.Products,
				"Error":      problem,
			})
			return
		}

		updated, err := svc.Update(r.Context(), id, ordersvc.UpdateOrderInput{
			User:     form.User,
			Products: form.Products,
		})
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%d/", updated.PK), http.StatusSeeOther)
	}
}

// OrderConfirmDeletePage shows the delete confirmation and applies it.
func OrderConfirmDeletePage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}

		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "order_confirm_delete.html", map[string]any{"Order": order})
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, "/orders/", http.StatusSeeOther)
	}
}

// UserOrdersPage renders all orders belonging to one user.
func UserOrdersPage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		items, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		renderPage(w, r, renderer, logg, http.StatusOK, "user_orders.html", map[string]any{
			"UserID": userID,
			"Orders": items,
		})
	}
}

// OrderImportCSVPage renders the upload form; a failed import re-renders the
// form with the row error while keeping the rows committed before it.
func OrderImportCSVPage(svc ordersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "csv_import.html", map[string]any{})
			return
		}

		file, _, err := r.FormFile("csv_file")
		if err != nil {
			renderPage(w, r, renderer, logg, http.StatusBadRequest, "csv_import.html", map[string]any{"Error": "a csv file is required"})
			return
		}
		defer file.Close()

		if _, err := svc.ImportCSV(r.Context(), file); err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "orders.import.aborted")
			}
			renderPage(w, r, renderer, logg, http.StatusUnprocessableEntity, "csv_import.html", map[string]any{"Error": err.Error()})
			return
		}
		http.Redirect(w, r, "/orders/", http.StatusSeeOther)
	}
}
