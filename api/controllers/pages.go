package controllers

import (
	"net/http"

	"github.com/shoplane/shoplane-backend/api/views"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

// renderPage executes an HTML template, falling back to a plain 500 when the
// template itself fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *views.Renderer, logg *logger.Logger, status int, name string, data any) {
	if err := renderer.Render(w, status, name, data); err != nil {
		if logg != nil {
			logg.Error(r.Context(), "view.render", err)
		}
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// htmlError maps a service error onto a plain-text HTTP error page.
func htmlError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	if logg != nil {
		logg.Error(r.Context(), "page.error", err)
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	http.Error(w, typed.Message(), meta.HTTPStatus)
}
