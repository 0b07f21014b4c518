/*
Package req provides helper functions for HTTP request parsing and data binding.

It checks the content type, enforces the body size limit and validates the JSON shape
before handlers see the data.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"digame/internal/pkg/errs"
)

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination dst.
// The body must hold exactly one JSON value.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dst); err != nil {
		if tooLarge(err) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if _, err := decoder.Token(); err != io.EOF {
		if tooLarge(err) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// ReadJSON reads a raw JSON document of at most limit bytes from the request body.
func ReadJSON(w http.ResponseWriter, r *http.Request, limit int64) (json.RawMessage, *errs.CustomError) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var raw json.RawMessage
	if customErr := BindJSON(r, &raw); customErr != nil {
		return nil, customErr
	}

	return raw, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
