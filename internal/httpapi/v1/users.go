package v1

import (
    "encoding/json"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/service/user"
)

// login handles POST /v1/auth/login and exchanges credentials for a token.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) {
        return
    }
    var req loginRequest
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
    u, err := s.userSvc.Authenticate(r.Context(), req.Email, req.Password)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    tok, err := s.tokens.issue(u)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, tokenResponse{AccessToken: tok, TokenType: "bearer"})
}

// postUser handles POST /v1/users.
func (s *Server) postUser(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) {
        return
    }
    var req postUserRequest
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
    u, err := s.userSvc.Create(r.Context(), user.CreateInput{
        Name:     req.Name,
        Email:    req.Email,
        Password: req.Password,
        Role:     library.Role(req.Role),
    })
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toUserResponse(u))
}

// listUsers handles GET /v1/users.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
    limit, offset, err := parsePage(r)
    if err != nil {
        unprocessable(w, err.Error(), "validation_error")
        return
    }
    items, total, err := s.userSvc.List(r.Context(), limit, offset)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    out := make([]userResponse, 0, len(items))
    for _, u := range items {
        out = append(out, toUserResponse(u))
    }
    toJSON(w, http.StatusOK, listUsersResponse{Items: out, Total: total, Limit: limit, Offset: offset})
}

// getUser handles GET /v1/users/{id}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        badRequest(w, "invalid user id")
        return
    }
    u, err := s.userSvc.Get(r.Context(), id)
    if err != nil {
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toUserResponse(u))
}
