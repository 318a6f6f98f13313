package v1

import (
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Auth

type loginRequest struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
    AccessToken string `json:"access_token"`
    TokenType   string `json:"token_type"`
}

// Users

type postUserRequest struct {
    Name     string `json:"name" validate:"required"`
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required,min=4"`
    Role     string `json:"role" validate:"required,oneof=admin librarian reader"`
}

type userResponse struct {
    ID        uuid.UUID    `json:"id"`
    Name      string       `json:"name"`
    Email     string       `json:"email"`
    Role      library.Role `json:"role"`
    CreatedAt time.Time    `json:"created_at"`
}

func toUserResponse(u library.User) userResponse {
    return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type listUsersResponse struct {
    Items  []userResponse `json:"items"`
    Total  int            `json:"total"`
    Limit  int            `json:"limit"`
    Offset int            `json:"offset"`
}

// Books

type postBookRequest struct {
    Name        string `json:"name" validate:"required"`
    Author      string `json:"author" validate:"required"`
    Category    string `json:"category" validate:"required,oneof=fiction nonfiction tech other"`
    TotalCopies int    `json:"total_copies" validate:"required,min=1"`
}

type addCopiesRequest struct {
    Quantity int `json:"quantity" validate:"required,min=1"`
}

type bookResponse struct {
    ID              uuid.UUID        `json:"id"`
    Name            string           `json:"name"`
    Author          string           `json:"author"`
    Category        library.Category `json:"category"`
    TotalCopies     int              `json:"total_copies"`
    AvailableCopies int              `json:"available_copies"`
    CreatedAt       time.Time        `json:"created_at"`
}

func toBookResponse(b library.Book) bookResponse {
    return bookResponse{
        ID:              b.ID,
        Name:            b.Name,
        Author:          b.Author,
        Category:        b.Category,
        TotalCopies:     b.TotalCopies,
        AvailableCopies: b.AvailableCopies,
        CreatedAt:       b.CreatedAt,
    }
}

type listBooksResponse struct {
    Items  []bookResponse `json:"items"`
    Total  int            `json:"total"`
    Limit  int            `json:"limit"`
    Offset int            `json:"offset"`
}

type availabilityResponse struct {
    BookID          uuid.UUID `json:"book_id"`
    AvailableCopies int       `json:"available_copies"`
    IsAvailable     bool      `json:"is_available"`
}

// Lendings

type postLendingRequest struct {
    UserID uuid.UUID `json:"user_id" validate:"required"`
    BookID uuid.UUID `json:"book_id" validate:"required"`
}

type returnLendingRequest struct {
    // Optional override for the return timestamp; defaults to now.
    ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

type lendingResponse struct {
    ID          uuid.UUID  `json:"id"`
    UserID      uuid.UUID  `json:"user_id"`
    BookID      uuid.UUID  `json:"book_id"`
    Quantity    int        `json:"quantity"`
    LendingDate time.Time  `json:"lending_date"`
    DueDate     time.Time  `json:"due_date"`
    ReturnedAt  *time.Time `json:"returned_at,omitempty"`
}

func (s *Server) toLendingResponse(l library.Lending) lendingResponse {
    return lendingResponse{
        ID:          l.ID,
        UserID:      l.UserID,
        BookID:      l.BookID,
        Quantity:    l.Quantity,
        LendingDate: l.LendingDate,
        DueDate:     l.LendingDate.AddDate(0, 0, s.policy().LendingDays),
        ReturnedAt:  l.ReturnedAt,
    }
}

type returnResponse struct {
    LendingID  uuid.UUID `json:"lending_id"`
    ReturnedAt time.Time `json:"returned_at"`
    FineMinor  int64     `json:"fine_minor"`
    Fine       string    `json:"fine"`
    Currency   string    `json:"currency"`
}

type listLendingsResponse struct {
    Items  []lendingResponse `json:"items"`
    Total  int               `json:"total"`
    Limit  int               `json:"limit"`
    Offset int               `json:"offset"`
}

type userLendingsResponse struct {
    Items  []lendingResponse `json:"items"`
    Limit  int               `json:"limit"`
    Offset int               `json:"offset"`
}
