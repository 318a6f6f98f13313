package v1

import (
    "fmt"
    "net/http"
    "strconv"
)

const (
    defaultPageLimit = 10
    maxPageLimit     = 100
)

// parsePage reads limit/offset query params. Limit defaults to 10 and is
// capped at 100; offset defaults to 0. Out-of-range values are rejected
// rather than clamped.
func parsePage(r *http.Request) (limit, offset int, err error) {
    limit = defaultPageLimit
    if raw := r.URL.Query().Get("limit"); raw != "" {
        limit, err = strconv.Atoi(raw)
        if err != nil || limit < 1 || limit > maxPageLimit {
            return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxPageLimit)
        }
    }
    if raw := r.URL.Query().Get("offset"); raw != "" {
        offset, err = strconv.Atoi(raw)
        if err != nil || offset < 0 {
            return 0, 0, fmt.Errorf("offset must be a non-negative integer")
        }
    }
    return limit, offset, nil
}
