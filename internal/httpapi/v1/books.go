package v1

import (
    "encoding/json"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/service/book"
)

// postBook handles POST /v1/books.
func (s *Server) postBook(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) {
        return
    }
    var req postBookRequest
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&req); err != nil {
        badRequest(w, "invalid JSON: "+err.Error())
        return
    }
    if err := validate.Struct(req); err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }

    b, err := s.bookSvc.Create(r.Context(), book.CreateInput{
        Name:        req.Name,
        Author:      req.Author,
        Category:    library.Category(req.Category),
        TotalCopies: req.TotalCopies,
    })
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toBookResponse(b))
}

// listBooks handles GET /v1/books.
func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
    limit, offset, err := parsePage(r)
    if err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }
    items, total, err := s.bookSvc.List(r.Context(), limit, offset)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    out := make([]bookResponse, 0, len(items))
    for _, b := range items {
        out = append(out, toBookResponse(b))
    }
    toJSON(w, http.StatusOK, listBooksResponse{Items: out, Total: total, Limit: limit, Offset: offset})
}

// getBook handles GET /v1/books/{id}.
func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid book id")
        return
    }
    b, err := s.bookSvc.Get(r.Context(), id)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toBookResponse(b))
}

// getBookAvailability handles GET /v1/books/{id}/availability.
func (s *Server) getBookAvailability(w http.ResponseWriter, r *http.Request) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid book id")
        return
    }
    av, err := s.bookSvc.Availability(r.Context(), id)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, availabilityResponse{
        BookID:          av.BookID,
        AvailableCopies: av.AvailableCopies,
        IsAvailable:     av.IsAvailable,
    })
}

// postBookCopies handles POST /v1/books/{id}/copies.
func (s *Server) postBookCopies(w http.ResponseWriter, r *http.Request) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid book id")
        return
    }
    if !requireJSON(w, r) {
        return
    }
    var req addCopiesRequest
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&req); err != nil {
        badRequest(w, "invalid JSON: "+err.Error())
        return
    }
    if err := validate.Struct(req); err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }
    b, err := s.bookSvc.AddCopies(r.Context(), id, req.Quantity)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toBookResponse(b))
}
