package apierr

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// FromGoogle classifies an error returned by a Google API client call.
// Errors that are already classified pass through untouched.
func FromGoogle(op string, err error) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return Auth(op, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return Auth(op, err)
		case http.StatusNotFound:
			return &Error{Kind: KindNotFound, Op: op, Err: err}
		case http.StatusBadRequest:
			return &Error{Kind: KindValidation, Op: op, Err: err}
		}
	}

	return Unknown(op, err)
}
