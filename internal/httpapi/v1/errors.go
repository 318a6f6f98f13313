package v1

import (
    "errors"
    "net/http"

    "github.com/owhenrique/library/internal/errs"
)

type errorResponse struct {
    Error string `json:"error"`
    Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func unauthorized(w http.ResponseWriter, msg string) {
    writeErr(w, http.StatusUnauthorized, msg, "unauthorized")
}
func forbidden(w http.ResponseWriter) {
    writeErr(w, http.StatusForbidden, "forbidden", "forbidden")
}
func unprocessable(w http.ResponseWriter, msg, code string) {
    writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// writeServiceErr maps service-layer sentinel errors onto the API's error
// contract. Anything unrecognized is a 500 with an opaque message.
func writeServiceErr(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, errs.ErrLendingLimitReached):
        writeErr(w, http.StatusConflict, "user has reached the active lending limit", "lending_limit_reached")
    case errors.Is(err, errs.ErrLendingAlreadyExists):
        writeErr(w, http.StatusConflict, "user already has an active lending for this book", "lending_already_exists")
    case errors.Is(err, errs.ErrBookNotAvailable):
        writeErr(w, http.StatusConflict, "book is not available for lending", "book_not_available")
    case errors.Is(err, errs.ErrLendingNotFound):
        writeErr(w, http.StatusNotFound, "lending not found", "lending_not_found")
    case errors.Is(err, errs.ErrBookAlreadyExists):
        writeErr(w, http.StatusConflict, "book already registered", "book_already_exists")
    case errors.Is(err, errs.ErrBookNotFound):
        writeErr(w, http.StatusNotFound, "book not found", "book_not_found")
    case errors.Is(err, errs.ErrEmailTaken):
        writeErr(w, http.StatusConflict, "email already registered", "email_already_exists")
    case errors.Is(err, errs.ErrUserNotFound):
        writeErr(w, http.StatusNotFound, "user not found", "user_not_found")
    case errors.Is(err, errs.ErrIncorrectPassword):
        writeErr(w, http.StatusUnauthorized, "incorrect password", "incorrect_password")
    case errors.Is(err, errs.ErrUnprocessable):
        unprocessable(w, "validation_error", "validation_error")
    case errors.Is(err, errs.ErrInvalid):
        badRequest(w, "invalid request")
    case errors.Is(err, errs.ErrNotFound):
        writeErr(w, http.StatusNotFound, "not_found", "not_found")
    default:
        writeErr(w, http.StatusInternalServerError, "internal error", "internal")
    }
}
