package v1

import (
    "context"

    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/service/book"
    "github.com/owhenrique/library/internal/service/lending"
    "github.com/owhenrique/library/internal/service/user"
)

// UserReader abstracts user read operations.
type UserReader interface {
    GetUser(ctx context.Context, id uuid.UUID) (library.User, error)
    UserByEmail(ctx context.Context, email string) (library.User, bool, error)
    ListUsers(ctx context.Context, limit, offset int) ([]library.User, int, error)
}

// BookReader abstracts book read operations.
type BookReader interface {
    GetBook(ctx context.Context, id uuid.UUID) (library.Book, error)
    BookByNameAuthor(ctx context.Context, name, author string) (library.Book, bool, error)
    ListBooks(ctx context.Context, limit, offset int) ([]library.Book, int, error)
}

// LendingReader abstracts lending read operations.
type LendingReader interface {
    ActiveLendingsByUser(ctx context.Context, userID uuid.UUID) ([]library.Lending, error)
    ActiveLendingByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (library.Lending, bool, error)
    LendingByID(ctx context.Context, id uuid.UUID) (library.Lending, error)
    ListActiveLendings(ctx context.Context, limit, offset int) ([]library.Lending, int, error)
    LendingsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error)
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
    Ready(ctx context.Context) error
}

// Repository is the convenience union satisfied by both the in-memory and
// the Postgres store.
type Repository interface {
    UserReader
    BookReader
    LendingReader
    user.Writer
    book.Writer
    lending.Writer
}
