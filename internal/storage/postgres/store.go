package postgres

// Package postgres provides a pgx-backed storage implementation that
// satisfies the repository and writer interfaces used by the HTTP/API and
// services.
//
// It is intentionally small and explicit. Migrations that create the
// expected schema live under db/migrations. Copy counts are never mutated
// with read-then-write SQL: every decrement/increment is a conditional
// UPDATE whose affected-row count decides the outcome, so two transactions
// racing for the last copy cannot both win.

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
)

// Store holds a pgx connection pool and implements the read/write
// interfaces used across the service layer. All methods are safe for
// concurrent use.
type Store struct {
    pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil {
        return nil, err
    }
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil {
        return nil, err
    }
    // Verify connection
    if err := pool.Ping(ctx); err != nil {
        pool.Close()
        return nil, err
    }
    return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
    if s.pool != nil {
        s.pool.Close()
    }
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// --- Users ---

// CreateUser inserts a user row.
func (s *Store) CreateUser(ctx context.Context, u library.User) (library.User, error) {
    _, err := s.pool.Exec(ctx, `
        insert into users (id, name, email, password_hash, role, created_at)
        values ($1,$2,$3,$4,$5,$6)
    `, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
    if err != nil {
        return library.User{}, err
    }
    return u, nil
}

// GetUser fetches a single user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (library.User, error) {
    var u library.User
    err := s.pool.QueryRow(ctx, `
        select id, name, email, password_hash, role, created_at
        from users
        where id = $1
    `, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.User{}, errs.ErrNotFound
    }
    if err != nil {
        return library.User{}, err
    }
    return u, nil
}

// UserByEmail resolves a user by email, case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (library.User, bool, error) {
    var u library.User
    err := s.pool.QueryRow(ctx, `
        select id, name, email, password_hash, role, created_at
        from users
        where lower(email) = lower($1)
    `, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.User{}, false, nil
    }
    if err != nil {
        return library.User{}, false, err
    }
    return u, true, nil
}

// ListUsers returns users in creation order with the overall total.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]library.User, int, error) {
    rows, err := s.pool.Query(ctx, `
        select id, name, email, password_hash, role, created_at
        from users
        order by created_at asc, id asc
        limit $1 offset $2
    `, limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]library.User, 0, limit)
    for rows.Next() {
        var u library.User
        if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
            return nil, 0, err
        }
        out = append(out, u)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    var total int
    if err := s.pool.QueryRow(ctx, `select count(*) from users`).Scan(&total); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// --- Books ---

// CreateBook inserts a book row.
func (s *Store) CreateBook(ctx context.Context, b library.Book) (library.Book, error) {
    _, err := s.pool.Exec(ctx, `
        insert into books (id, name, author, category, total_copies, available_copies, created_at)
        values ($1,$2,$3,$4,$5,$6,$7)
    `, b.ID, b.Name, b.Author, b.Category, b.TotalCopies, b.AvailableCopies, b.CreatedAt)
    if err != nil {
        return library.Book{}, err
    }
    return b, nil
}

// GetBook fetches a single book by id.
func (s *Store) GetBook(ctx context.Context, id uuid.UUID) (library.Book, error) {
    var b library.Book
    err := s.pool.QueryRow(ctx, `
        select id, name, author, category, total_copies, available_copies, created_at
        from books
        where id = $1
    `, id).Scan(&b.ID, &b.Name, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.Book{}, errs.ErrNotFound
    }
    if err != nil {
        return library.Book{}, err
    }
    return b, nil
}

// BookByNameAuthor resolves a book by exact name and author.
func (s *Store) BookByNameAuthor(ctx context.Context, name, author string) (library.Book, bool, error) {
    var b library.Book
    err := s.pool.QueryRow(ctx, `
        select id, name, author, category, total_copies, available_copies, created_at
        from books
        where name = $1 and author = $2
    `, name, author).Scan(&b.ID, &b.Name, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.Book{}, false, nil
    }
    if err != nil {
        return library.Book{}, false, err
    }
    return b, true, nil
}

// ListBooks returns books in creation order with the overall total.
func (s *Store) ListBooks(ctx context.Context, limit, offset int) ([]library.Book, int, error) {
    rows, err := s.pool.Query(ctx, `
        select id, name, author, category, total_copies, available_copies, created_at
        from books
        order by created_at asc, id asc
        limit $1 offset $2
    `, limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]library.Book, 0, limit)
    for rows.Next() {
        var b library.Book
        if err := rows.Scan(&b.ID, &b.Name, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt); err != nil {
            return nil, 0, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    var total int
    if err := s.pool.QueryRow(ctx, `select count(*) from books`).Scan(&total); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// AddBookCopies grows a book's inventory by qty, keeping both counters in
// a single statement.
func (s *Store) AddBookCopies(ctx context.Context, id uuid.UUID, qty int) (library.Book, error) {
    if qty <= 0 {
        return library.Book{}, errs.ErrInvalid
    }
    var b library.Book
    err := s.pool.QueryRow(ctx, `
        update books
        set total_copies = total_copies + $2, available_copies = available_copies + $2
        where id = $1
        returning id, name, author, category, total_copies, available_copies, created_at
    `, id, qty).Scan(&b.ID, &b.Name, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.Book{}, errs.ErrNotFound
    }
    if err != nil {
        return library.Book{}, err
    }
    return b, nil
}

// --- Lendings ---

// CreateLending implements lending.Writer. The decrement is conditional on
// available_copies > 0; zero affected rows means the book is missing or
// out of copies, and nothing is inserted.
func (s *Store) CreateLending(ctx context.Context, l library.Lending) (library.Lending, error) {
    tx, err := s.pool.Begin(ctx)
    if err != nil {
        return library.Lending{}, err
    }
    defer func() { _ = tx.Rollback(ctx) }()

    ct, err := tx.Exec(ctx, `
        update books
        set available_copies = available_copies - 1
        where id = $1 and available_copies > 0
    `, l.BookID)
    if err != nil {
        return library.Lending{}, err
    }
    if ct.RowsAffected() == 0 {
        return library.Lending{}, errs.ErrBookNotAvailable
    }

    if _, err := tx.Exec(ctx, `
        insert into lendings (id, user_id, book_id, quantity, lending_date, returned_at)
        values ($1,$2,$3,$4,$5,null)
    `, l.ID, l.UserID, l.BookID, l.Quantity, l.LendingDate); err != nil {
        return library.Lending{}, err
    }

    if err := tx.Commit(ctx); err != nil {
        return library.Lending{}, err
    }
    return l, nil
}

// CompleteLending implements lending.Writer. The returned_at update is
// guarded on the record still being active; the copy restoration is
// conditional on available_copies < total_copies. A vanished book is
// tolerated, an at-capacity book aborts with ErrCopiesExceedTotal.
func (s *Store) CompleteLending(ctx context.Context, id uuid.UUID, returnedAt time.Time) error {
    tx, err := s.pool.Begin(ctx)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback(ctx) }()

    var bookID uuid.UUID
    err = tx.QueryRow(ctx, `
        update lendings
        set returned_at = $2
        where id = $1 and returned_at is null
        returning book_id
    `, id, returnedAt).Scan(&bookID)
    if errors.Is(err, pgx.ErrNoRows) {
        return errs.ErrNotFound
    }
    if err != nil {
        return err
    }

    ct, err := tx.Exec(ctx, `
        update books
        set available_copies = available_copies + 1
        where id = $1 and available_copies < total_copies
    `, bookID)
    if err != nil {
        return err
    }
    if ct.RowsAffected() == 0 {
        var exists bool
        if err := tx.QueryRow(ctx, `select exists(select 1 from books where id = $1)`, bookID).Scan(&exists); err != nil {
            return err
        }
        if exists {
            return errs.ErrCopiesExceedTotal
        }
        // book vanished: keep the record transition, skip the restoration
    }

    return tx.Commit(ctx)
}

// ActiveLendingsByUser returns the user's active records in creation order.
func (s *Store) ActiveLendingsByUser(ctx context.Context, userID uuid.UUID) ([]library.Lending, error) {
    rows, err := s.pool.Query(ctx, `
        select id, user_id, book_id, quantity, lending_date, returned_at
        from lendings
        where user_id = $1 and returned_at is null
        order by lending_date asc, id asc
    `, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanLendings(rows)
}

// ActiveLendingByUserAndBook resolves the at-most-one active record for a
// (user, book) pair.
func (s *Store) ActiveLendingByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (library.Lending, bool, error) {
    var l library.Lending
    err := s.pool.QueryRow(ctx, `
        select id, user_id, book_id, quantity, lending_date, returned_at
        from lendings
        where user_id = $1 and book_id = $2 and returned_at is null
    `, userID, bookID).Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.LendingDate, &l.ReturnedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.Lending{}, false, nil
    }
    if err != nil {
        return library.Lending{}, false, err
    }
    return l, true, nil
}

// LendingByID returns a lending by ID regardless of status.
func (s *Store) LendingByID(ctx context.Context, id uuid.UUID) (library.Lending, error) {
    var l library.Lending
    err := s.pool.QueryRow(ctx, `
        select id, user_id, book_id, quantity, lending_date, returned_at
        from lendings
        where id = $1
    `, id).Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.LendingDate, &l.ReturnedAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return library.Lending{}, errs.ErrNotFound
    }
    if err != nil {
        return library.Lending{}, err
    }
    return l, nil
}

// ListActiveLendings pages over active records; total counts active only.
func (s *Store) ListActiveLendings(ctx context.Context, limit, offset int) ([]library.Lending, int, error) {
    rows, err := s.pool.Query(ctx, `
        select id, user_id, book_id, quantity, lending_date, returned_at
        from lendings
        where returned_at is null
        order by lending_date asc, id asc
        limit $1 offset $2
    `, limit, offset)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    items, err := scanLendings(rows)
    if err != nil {
        return nil, 0, err
    }
    var total int
    if err := s.pool.QueryRow(ctx, `select count(*) from lendings where returned_at is null`).Scan(&total); err != nil {
        return nil, 0, err
    }
    return items, total, nil
}

// LendingsByUser pages over all of a user's records, by creation order.
func (s *Store) LendingsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error) {
    rows, err := s.pool.Query(ctx, `
        select id, user_id, book_id, quantity, lending_date, returned_at
        from lendings
        where user_id = $1
        order by lending_date asc, id asc
        limit $2 offset $3
    `, userID, limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanLendings(rows)
}

func scanLendings(rows pgx.Rows) ([]library.Lending, error) {
    out := make([]library.Lending, 0)
    for rows.Next() {
        var l library.Lending
        if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.Quantity, &l.LendingDate, &l.ReturnedAt); err != nil {
            return nil, err
        }
        out = append(out, l)
    }
    return out, rows.Err()
}
