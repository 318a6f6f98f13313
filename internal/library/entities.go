package library

import (
    "time"

    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/errs"
)

// Role enumerates the access level of a user.
type Role string

const (
	// RoleAdmin may manage users, books, and lendings.
	RoleAdmin Role = "admin"
	// RoleLibrarian may manage books and lendings but not users.
	RoleLibrarian Role = "librarian"
	// RoleReader may browse the catalog and view their own history.
	RoleReader Role = "reader"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleReader:
		return true
	}
	return false
}

// Category classifies a book in the catalog.
type Category string

const (
	CategoryFiction    Category = "fiction"
	CategoryNonfiction Category = "nonfiction"
	CategoryTech       Category = "tech"
	CategoryOther      Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFiction, CategoryNonfiction, CategoryTech, CategoryOther:
		return true
	}
	return false
}

// User captures a member of the library.
type User struct {
    ID    uuid.UUID
    Name  string
    Email string
    // PasswordHash holds the encoded argon2id digest, never the password.
    PasswordHash string
    Role         Role
    CreatedAt    time.Time
}

// Book represents a catalog title and its copy counts. The invariant
// 0 <= AvailableCopies <= TotalCopies holds at all times; copy counts are
// mutated only through LendCopy / ReturnCopy / AddCopies, each atomic with
// the corresponding lending-record transition at the storage layer.
type Book struct {
    ID              uuid.UUID
    Name            string
    Author          string
    Category        Category
    TotalCopies     int
    AvailableCopies int
    CreatedAt       time.Time
}

// LendCopy takes one copy out of the available pool.
func (b *Book) LendCopy() error {
    if b.AvailableCopies < 1 {
        return errs.ErrBookNotAvailable
    }
    b.AvailableCopies--
    return nil
}

// ReturnCopy puts one copy back into the available pool. Exceeding
// TotalCopies is a copy-count invariant breach.
func (b *Book) ReturnCopy() error {
    if b.AvailableCopies >= b.TotalCopies {
        return errs.ErrCopiesExceedTotal
    }
    b.AvailableCopies++
    return nil
}

// AddCopies grows the inventory: both total and available increase by qty.
func (b *Book) AddCopies(qty int) error {
    if qty <= 0 {
        return errs.ErrInvalid
    }
    b.TotalCopies += qty
    b.AvailableCopies += qty
    return nil
}

// Lending records that a user borrowed a quantity of a given book. The
// engine fixes Quantity at 1 per record; the store accepts any positive
// value for forward compatibility. ReturnedAt == nil means the lending is
// active; the transition to returned happens exactly once and is
// irreversible. Records are never physically deleted.
type Lending struct {
    ID          uuid.UUID
    UserID      uuid.UUID
    BookID      uuid.UUID
    Quantity    int
    LendingDate time.Time
    ReturnedAt  *time.Time
}

// IsActive reports whether the lending has not been returned yet.
func (l Lending) IsActive() bool { return l.ReturnedAt == nil }
