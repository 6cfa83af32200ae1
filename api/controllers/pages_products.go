package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shoplane/shoplane-backend/api/middleware"
	"github.com/shoplane/shoplane-backend/api/views"
	productsvc "github.com/shoplane/shoplane-backend/internal/products"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

// ProductListPage renders the storefront listing of active products.
func ProductListPage(svc productsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		renderPage(w, r, renderer, logg, http.StatusOK, "product_list.html", map[string]any{"Products": items})
	}
}

// ProductDetailPage renders one product with its gallery.
func ProductDetailPage(svc productsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		renderPage(w, r, renderer, logg, http.StatusOK, "product_detail.html", map[string]any{"Product": product})
	}
}

type productForm struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    int16
}

func parseProductForm(r *http.Request) (productForm, string) {
	if err := r.ParseForm(); err != nil {
		return productForm{}, "invalid form submission"
	}

	form := productForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: r.PostFormValue("description"),
	}
	if form.Name == "" {
		return form, "name is required"
	}
	if len(form.Name) > 100 {
		return form, "name must be at most 100 characters"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if err != nil || price.IsNegative() {
		return form, "price must be a non-negative number"
	}
	form.Price = price

	if raw := strings.TrimSpace(r.PostFormValue("discount")); raw != "" {
		discount, err := strconv.ParseInt(raw, 10, 16)
		if err != nil || discount < 0 || discount > 100 {
			return form, "discount must be between 0 and 100"
		}
		form.Discount = int16(discount)
	}
	return form, ""
}

// ProductCreatePage renders the creation form and handles its submission.
func ProductCreatePage(svc productsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "product_form.html", map[string]any{})
			return
		}

		form, problem := parseProductForm(r)
		if problem != "" {
			renderPage(w, r, renderer, logg, http.StatusUnprocessableEntity, "product_form.html", map[string]any{"Error": problem})
			return
		}

		product, err := svc.Create(r.Context(), middleware.ClaimsFromContext(r.Context()), productsvc.CreateProductInput{
			Name:        form.Name,
			Description: form.Description,
			Price:       form.Price,
			Discount:    form.Discount,
		})
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/products/%d/", product.PK), http.StatusSeeOther)
	}
}

// ProductUpdatePage renders the edit form and handles its submission.
func ProductUpdatePage(svc productsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}

		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "product_form.html", map[string]any{"Product": product})
			return
		}

		form, problem := parseProductForm(r)
		if problem != "" {
			renderPage(w, r, renderer, logg, http.StatusUnprocessableEntity, "product_form.html", map[string]any{
				"Product": product,
				"Error":   problem,
			})
			return
		}

		updated, err := svc.Update(r.Context(), middleware.ClaimsFromContext(r.Context()), id, productsvc.UpdateProductInput{
			Name:        form.Name,
			Description: form.Description,
			Price:       form.Price,
			Discount:    form.Discount,
		})
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/products/%d/", updated.PK), http.StatusSeeOther)
	}
}

// ProductConfirmArchivePage shows the archive confirmation and applies it.
func ProductConfirmArchivePage(svc productsvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			htmlError(w, r, logg, err)
			return
		}

		if r.Method == http.MethodGet {
			renderPage(w, r, renderer, logg, http.StatusOK, "product_confirm_archive.html", map[string]any{"Product": product})
			return
		}

		if err := svc.Archive(r.Context(), id); err != nil {
			htmlError(w, r, logg, err)
			return
		}
		http.Redirect(w, r, "/products/", http.StatusSeeOther)
	}
}
