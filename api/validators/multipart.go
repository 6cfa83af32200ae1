package validators

import (
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// maxUploadBytes bounds in-memory parsing of multipart bodies.
const maxUploadBytes = 32 << 20

// FormFile extracts the named upload from a multipart form.
func FormFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing file field").WithDetails(map[string]any{"field": field})
	}
	return file, header, nil
}
