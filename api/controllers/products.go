package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shoplane/shoplane-backend/api/middleware"
	"github.com/shoplane/shoplane-backend/api/responses"
	"github.com/shoplane/shoplane-backend/api/validators"
	productsvc "github.com/shoplane/shoplane-backend/internal/products"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
)

func pathID(r *http.Request, key string) (uint, error) {
	raw := chi.URLParam(r, key)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "identifier must be numeric").WithDetails(map[string]any{"param": key})
	}
	return uint(value), nil
}

type productRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Discount    *int16 `json:"discount" validate:"omitempty,min=0,max=100"`
}

func (p productRequest) price() (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if value.IsNegative() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return value, nil
}

// ProductList serves the REST collection with filters and pagination.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := productFiltersFromQuery(r)
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

func productFiltersFromQuery(r *http.Request) (productsvc.ListFilters, error) {
	var filters productsvc.ListFilters

	filters.Name = validators.ParseQueryString(r, "name")
	filters.Description = validators.ParseQueryString(r, "description")
	filters.Search = r.URL.Query().Get("search")

	if raw := validators.ParseQueryString(r, "price"); raw != nil {
		value, err := decimal.NewFromString(*raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price filter")
		}
		filters.Price = &value
	}
	if raw := validators.ParseQueryString(r, "discount"); raw != nil {
		value, err := strconv.Atoi(*raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount filter")
		}
		filters.Discount = &value
	}
	if raw := validators.ParseQueryString(r, "archived"); raw != nil {
		value, err := strconv.ParseBool(*raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid archived filter")
		}
		filters.Archived = &value
	}
	return filters, nil
}

// ProductGet serves a single product with its images.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate creates a catalog entry attributed to the caller.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := payload.price()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       price,
		}
		if payload.Discount != nil {
			input.Discount = *payload.Discount
		}

		product, err := svc.Create(r.Context(), middleware.ClaimsFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate rewrites the writable fields subject to the ownership rule.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		price, err := payload.price()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       price,
		}
		if payload.Discount != nil {
			input.Discount = *payload.Discount
		}

		product, err := svc.Update(r.Context(), middleware.ClaimsFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductArchive soft-deletes: the row survives, the listing loses it.
func ProductArchive(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Archive(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]any{"archived": id})
	}
}

type bulkProductRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

// ProductBulkArchive flips archived on for every listed id.
func ProductBulkArchive(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkArchiveHandler(svc, logg, true)
}

// ProductBulkUnarchive flips archived off for every listed id.
func ProductBulkUnarchive(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkArchiveHandler(svc, logg, false)
}

func bulkArchiveHandler(svc productsvc.Service, logg *logger.Logger, archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var err error
		if archived {
			err = svc.BulkArchive(r.Context(), payload.IDs)
		} else {
			err = svc.BulkUnarchive(r.Context(), payload.IDs)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"ids": payload.IDs, "archived": archived})
	}
}

// ProductDelete removes the row permanently.
func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.ClaimsFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ProductExport serves every product under the "products" key.
func ProductExport(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePlain(w, http.StatusOK, struct {
			Products []productsvc.ExportProductDTO `json:"products"`
		}{rows})
	}
}

// ProductUploadPreview stores the preview image for a product.
func ProductUploadPreview(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.FormFile(r, "preview")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		product, err := svc.SavePreview(r.Context(), middleware.ClaimsFromContext(r.Context()), id, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductUploadImage attaches a gallery image to a product.
func ProductUploadImage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		description := r.FormValue("description")
		product, err := svc.AddImage(r.Context(), id, header.Filename, description, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
