package v1

import (
    "encoding/json"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
)

// postLending handles POST /v1/lendings.
func (s *Server) postLending(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) {
        return
    }
    var req postLendingRequest
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

    // The borrower must exist; the engine itself only knows about books.
    if _, err := s.userSvc.Get(r.Context(), req.UserID); err != nil {
        writeServiceErr(w, err)
        return
    }

    l, err := s.lendingSvc.Create(r.Context(), req.UserID, req.BookID)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    lendingsCreatedTotal.Inc()
    toJSON(w, http.StatusCreated, s.toLendingResponse(l))
}

// returnLending handles POST /v1/lendings/{id}/return.
func (s *Server) returnLending(w http.ResponseWriter, r *http.Request) {
    lendingID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid lending id")
        return
    }

    var req returnLendingRequest
    if r.Body != nil && r.ContentLength != 0 {
        if !requireJSON(w, r) {
            return
        }
        dec := json.NewDecoder(r.Body)
        dec.DisallowUnknownFields()
        if err := dec.Decode(&req); err != nil {
            badRequest(w, "invalid JSON: "+err.Error())
            return
        }
    }

    res, err := s.lendingSvc.Return(r.Context(), lendingID, req.ReturnedAt)
    if err != nil {
        writeServiceErr(w, err)
        return
    }

    fineMinor, _ := res.Fine.MinorUnits()
    lendingsReturnedTotal.Inc()
    finesAssessedMinorTotal.Add(float64(fineMinor))
    toJSON(w, http.StatusOK, returnResponse{
        LendingID:  res.LendingID,
        ReturnedAt: res.ReturnedAt,
        FineMinor:  fineMinor,
        Fine:       res.Fine.String(),
        Currency:   res.Fine.Curr().Code(),
    })
}

// listActiveLendings handles GET /v1/lendings/active.
func (s *Server) listActiveLendings(w http.ResponseWriter, r *http.Request) {
    limit, offset, err := parsePage(r)
    if err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }
    items, total, err := s.lendingSvc.ListActive(r.Context(), limit, offset)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    out := make([]lendingResponse, 0, len(items))
    for _, l := range items {
        out = append(out, s.toLendingResponse(l))
    }
    toJSON(w, http.StatusOK, listLendingsResponse{Items: out, Total: total, Limit: limit, Offset: offset})
}

// listUserLendings handles GET /v1/lendings/user/{id}. Readers may only
// see their own history; staff may see anyone's.
func (s *Server) listUserLendings(w http.ResponseWriter, r *http.Request) {
    userID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid user id")
        return
    }
    if id, ok := callerIdentity(r.Context()); ok && id.Role == library.RoleReader && id.UserID != userID {
        forbidden(w)
        return
    }
    limit, offset, err := parsePage(r)
    if err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }
    if _, err := s.userSvc.Get(r.Context(), userID); err != nil {
        writeServiceErr(w, err)
        return
    }
    items, err := s.lendingSvc.UserHistory(r.Context(), userID, limit, offset)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    out := make([]lendingResponse, 0, len(items))
    for _, l := range items {
        out = append(out, s.toLendingResponse(l))
    }
    toJSON(w, http.StatusOK, userLendingsResponse{Items: out, Limit: limit, Offset: offset})
}
