package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
    ErrNotFound = errors.New("not_found")
    ErrInvalid  = errors.New("invalid")
    // ErrUnprocessable is used for semantic validation failures (HTTP 422)
    ErrUnprocessable = errors.New("unprocessable")
)

// Lending business-rule rejections. Expected, caller-facing outcomes of the
// requested operation; none triggers a retry.
var (
    // ErrLendingLimitReached: the user already holds the maximum number of
    // simultaneous active lendings.
    ErrLendingLimitReached = errors.New("lending_limit_reached")
    // ErrLendingAlreadyExists: the user already has an active lending for
    // this book.
    ErrLendingAlreadyExists = errors.New("lending_already_exists")
    // ErrBookNotAvailable: the book is missing or has no free copy.
    ErrBookNotAvailable = errors.New("book_not_available")
    // ErrLendingNotFound: the lending is missing or already returned. A
    // second return call is rejected, not treated as a no-op.
    ErrLendingNotFound = errors.New("lending_not_found")
)

// Catalog and user rejections.
var (
    ErrBookNotFound      = errors.New("book_not_found")
    ErrBookAlreadyExists = errors.New("book_already_exists")
    ErrUserNotFound      = errors.New("user_not_found")
    ErrEmailTaken        = errors.New("email_already_registered")
    ErrIncorrectPassword = errors.New("incorrect_email_or_password")
)

// ErrCopiesExceedTotal indicates a copy-count invariant breach: restoring a
// copy would push available_copies past total_copies. It marks a data
// integrity defect rather than a business rejection and is fatal to the
// operation that detects it.
var ErrCopiesExceedTotal = errors.New("available_copies_exceed_total")
