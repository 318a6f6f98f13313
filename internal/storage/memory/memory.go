package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing
// us to plug in a real DB later.
import (
    "context"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
)

// Store is an in-memory implementation of the repository and writer
// interfaces used across the service layer. It is guarded by an RWMutex;
// every writer method mutates under one critical section, which gives the
// same all-or-nothing visibility the Postgres store gets from transactions.
type Store struct {
    mu       sync.RWMutex
    users    map[uuid.UUID]library.User
    books    map[uuid.UUID]library.Book
    lendings map[uuid.UUID]*library.Lending
    // Insertion-order indexes for deterministic, creation-ordered listings.
    userOrder    []uuid.UUID
    bookOrder    []uuid.UUID
    lendingOrder []uuid.UUID
}

// New constructs an empty in-memory store.
func New() *Store {
    return &Store{
        users:    make(map[uuid.UUID]library.User),
        books:    make(map[uuid.UUID]library.Book),
        lendings: make(map[uuid.UUID]*library.Lending),
    }
}

// Seed helpers for local dev/tests.
func (s *Store) SeedUser(u library.User) {
    s.mu.Lock()
    if _, ok := s.users[u.ID]; !ok {
        s.userOrder = append(s.userOrder, u.ID)
    }
    s.users[u.ID] = u
    s.mu.Unlock()
}

func (s *Store) SeedBook(b library.Book) {
    s.mu.Lock()
    if _, ok := s.books[b.ID]; !ok {
        s.bookOrder = append(s.bookOrder, b.ID)
    }
    s.books[b.ID] = b
    s.mu.Unlock()
}

// SeedLending inserts a record as-is, without touching book counts. Tests
// use it to stage histories with known dates.
func (s *Store) SeedLending(l library.Lending) {
    s.mu.Lock()
    if _, ok := s.lendings[l.ID]; !ok {
        s.lendingOrder = append(s.lendingOrder, l.ID)
    }
    cp := l
    s.lendings[l.ID] = &cp
    s.mu.Unlock()
}

func (s *Store) Reset() {
    s.mu.Lock()
    s.users = map[uuid.UUID]library.User{}
    s.books = map[uuid.UUID]library.Book{}
    s.lendings = map[uuid.UUID]*library.Lending{}
    s.userOrder = nil
    s.bookOrder = nil
    s.lendingOrder = nil
    s.mu.Unlock()
}

// --- Users ---

// CreateUser persists a new user.
func (s *Store) CreateUser(_ context.Context, u library.User) (library.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.users[u.ID] = u
    s.userOrder = append(s.userOrder, u.ID)
    return u, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (library.User, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    u, ok := s.users[id]
    if !ok {
        return library.User{}, errs.ErrNotFound
    }
    return u, nil
}

// UserByEmail resolves a user by email, case-insensitively.
func (s *Store) UserByEmail(_ context.Context, email string) (library.User, bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    for _, id := range s.userOrder {
        if u, ok := s.users[id]; ok && strings.EqualFold(u.Email, email) {
            return u, true, nil
        }
    }
    return library.User{}, false, nil
}

// ListUsers returns users in creation order with the overall total.
func (s *Store) ListUsers(_ context.Context, limit, offset int) ([]library.User, int, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    total := len(s.userOrder)
    out := make([]library.User, 0, limit)
    for _, id := range page(s.userOrder, limit, offset) {
        out = append(out, s.users[id])
    }
    return out, total, nil
}

// --- Books ---

// CreateBook persists a new book.
func (s *Store) CreateBook(_ context.Context, b library.Book) (library.Book, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.books[b.ID] = b
    s.bookOrder = append(s.bookOrder, b.ID)
    return b, nil
}

// GetBook returns a book by ID.
func (s *Store) GetBook(_ context.Context, id uuid.UUID) (library.Book, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    b, ok := s.books[id]
    if !ok {
        return library.Book{}, errs.ErrNotFound
    }
    return b, nil
}

// BookByNameAuthor resolves a book by exact name and author.
func (s *Store) BookByNameAuthor(_ context.Context, name, author string) (library.Book, bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    for _, id := range s.bookOrder {
        if b, ok := s.books[id]; ok && b.Name == name && b.Author == author {
            return b, true, nil
        }
    }
    return library.Book{}, false, nil
}

// ListBooks returns books in creation order with the overall total.
func (s *Store) ListBooks(_ context.Context, limit, offset int) ([]library.Book, int, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    total := len(s.bookOrder)
    out := make([]library.Book, 0, limit)
    for _, id := range page(s.bookOrder, limit, offset) {
        out = append(out, s.books[id])
    }
    return out, total, nil
}

// AddBookCopies grows a book's inventory by qty.
func (s *Store) AddBookCopies(_ context.Context, id uuid.UUID, qty int) (library.Book, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.books[id]
    if !ok {
        return library.Book{}, errs.ErrNotFound
    }
    if err := b.AddCopies(qty); err != nil {
        return library.Book{}, err
    }
    s.books[id] = b
    return b, nil
}

// --- Lendings ---

// CreateLending implements lending.Writer: the conditional copy decrement
// and the record insert happen under one lock, so a concurrent create for
// the last copy observes either both effects or neither.
func (s *Store) CreateLending(_ context.Context, l library.Lending) (library.Lending, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.books[l.BookID]
    if !ok {
        return library.Lending{}, errs.ErrBookNotAvailable
    }
    if err := b.LendCopy(); err != nil {
        return library.Lending{}, err
    }
    s.books[l.BookID] = b
    cp := l
    s.lendings[cp.ID] = &cp
    s.lendingOrder = append(s.lendingOrder, cp.ID)
    return cp, nil
}

// CompleteLending implements lending.Writer: the active -> returned
// transition and the copy restoration happen under one lock. A missing
// book is tolerated; an at-capacity book is an invariant breach and aborts
// the transition.
func (s *Store) CompleteLending(_ context.Context, id uuid.UUID, returnedAt time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    l, ok := s.lendings[id]
    if !ok || l.ReturnedAt != nil {
        return errs.ErrNotFound
    }
    if b, ok := s.books[l.BookID]; ok {
        if err := b.ReturnCopy(); err != nil {
            return err
        }
        s.books[l.BookID] = b
    }
    at := returnedAt
    l.ReturnedAt = &at
    return nil
}

// ActiveLendingsByUser returns the user's active records in creation order.
func (s *Store) ActiveLendingsByUser(_ context.Context, userID uuid.UUID) ([]library.Lending, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]library.Lending, 0)
    for _, id := range s.lendingOrder {
        if l, ok := s.lendings[id]; ok && l.UserID == userID && l.ReturnedAt == nil {
            out = append(out, *l)
        }
    }
    return out, nil
}

// ActiveLendingByUserAndBook resolves the at-most-one active record for a
// (user, book) pair.
func (s *Store) ActiveLendingByUserAndBook(_ context.Context, userID, bookID uuid.UUID) (library.Lending, bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    for _, id := range s.lendingOrder {
        if l, ok := s.lendings[id]; ok && l.UserID == userID && l.BookID == bookID && l.ReturnedAt == nil {
            return *l, true, nil
        }
    }
    return library.Lending{}, false, nil
}

// LendingByID returns a lending by ID regardless of status.
func (s *Store) LendingByID(_ context.Context, id uuid.UUID) (library.Lending, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    l, ok := s.lendings[id]
    if !ok {
        return library.Lending{}, errs.ErrNotFound
    }
    return *l, nil
}

// ListActiveLendings pages over active records; total counts active only.
func (s *Store) ListActiveLendings(_ context.Context, limit, offset int) ([]library.Lending, int, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    active := make([]uuid.UUID, 0, len(s.lendingOrder))
    for _, id := range s.lendingOrder {
        if l, ok := s.lendings[id]; ok && l.ReturnedAt == nil {
            active = append(active, id)
        }
    }
    total := len(active)
    out := make([]library.Lending, 0, limit)
    for _, id := range page(active, limit, offset) {
        out = append(out, *s.lendings[id])
    }
    return out, total, nil
}

// LendingsByUser pages over all of a user's records, by creation order.
func (s *Store) LendingsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    mine := make([]uuid.UUID, 0)
    for _, id := range s.lendingOrder {
        if l, ok := s.lendings[id]; ok && l.UserID == userID {
            mine = append(mine, id)
        }
    }
    out := make([]library.Lending, 0, limit)
    for _, id := range page(mine, limit, offset) {
        out = append(out, *s.lendings[id])
    }
    return out, nil
}

// page slices ids by limit/offset, clamping to bounds.
func page(ids []uuid.UUID, limit, offset int) []uuid.UUID {
    if offset < 0 {
        offset = 0
    }
    if offset >= len(ids) {
        return nil
    }
    end := len(ids)
    if limit > 0 && offset+limit < end {
        end = offset + limit
    }
    return ids[offset:end]
}
