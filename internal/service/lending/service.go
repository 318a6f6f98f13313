// Package lending implements the lending lifecycle engine: the rules that
// move a copy of a book between available and on loan, arbitrate concurrent
// lending requests, and compute overdue fines at return time.
package lending

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/money"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
)

// Repo defines read operations needed by the engine.
type Repo interface {
    ActiveLendingsByUser(ctx context.Context, userID uuid.UUID) ([]library.Lending, error)
    ActiveLendingByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (library.Lending, bool, error)
    LendingByID(ctx context.Context, id uuid.UUID) (library.Lending, error)
    ListActiveLendings(ctx context.Context, limit, offset int) ([]library.Lending, int, error)
    LendingsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error)
    GetBook(ctx context.Context, bookID uuid.UUID) (library.Book, error)
}

// Writer defines the transactional write operations needed by the engine.
// Implementations must make each call atomic: either every mutation in it
// commits or none does.
type Writer interface {
    // CreateLending inserts the record and decrements the book's available
    // copies in one transaction. The decrement must be conditional
    // (available_copies > 0); implementations return ErrBookNotAvailable
    // when no copy remains at commit time, which closes the check-then-act
    // race between concurrent creates for the last copy.
    CreateLending(ctx context.Context, l library.Lending) (library.Lending, error)
    // CompleteLending sets the lending's returned_at and restores one copy
    // to the book in one transaction. The transition is guarded on the
    // record still being active; ErrNotFound reports a lost race with a
    // concurrent return. A missing book is tolerated silently: the record
    // still transitions, only the copy-count restoration is skipped.
    CompleteLending(ctx context.Context, id uuid.UUID, returnedAt time.Time) error
}

// Policy carries the lending rules. It is passed into the engine at
// construction so tests can vary it; there are no package-level knobs.
type Policy struct {
    // LendingDays is the grace period before a late return accrues fines.
    LendingDays int
    // FinePerDayMinor is the fine per whole day late, in minor units.
    FinePerDayMinor int64
    // FineCurrency is the ISO 4217 code fines are denominated in.
    FineCurrency string
    // MaxLendings caps simultaneous active lendings per user.
    MaxLendings int
}

// DefaultPolicy returns the standard lending rules: a 14-day grace period,
// a 2.00-per-day fine, and at most 3 active lendings per user.
func DefaultPolicy() Policy {
    return Policy{LendingDays: 14, FinePerDayMinor: 200, FineCurrency: "USD", MaxLendings: 3}
}

// Validate rejects a policy the engine cannot apply. It is meant to run
// once, before the engine is constructed; Fine assumes a valid policy.
func (p Policy) Validate() error {
    if _, err := money.NewAmountFromMinorUnits(p.FineCurrency, 0); err != nil {
        return fmt.Errorf("unknown fine currency %q: %w", p.FineCurrency, err)
    }
    if p.LendingDays < 0 {
        return fmt.Errorf("lending days must not be negative, got %d", p.LendingDays)
    }
    if p.FinePerDayMinor < 0 {
        return fmt.Errorf("fine per day must not be negative, got %d", p.FinePerDayMinor)
    }
    if p.MaxLendings < 1 {
        return fmt.Errorf("max lendings must be at least 1, got %d", p.MaxLendings)
    }
    return nil
}

// Fine computes the overdue fine for a lending returned at returnedAt.
// Lateness counts whole calendar days past lendingDate + LendingDays;
// time of day is ignored on both sides. The result is non-negative and
// non-decreasing in the number of days late.
func (p Policy) Fine(lendingDate, returnedAt time.Time) money.Amount {
    due := lendingDate.AddDate(0, 0, p.LendingDays)
    late := int64(dateOnly(returnedAt).Sub(dateOnly(due)).Hours() / 24)
    if late < 0 {
        late = 0
    }
    amt, err := money.NewAmountFromMinorUnits(p.FineCurrency, late*p.FinePerDayMinor)
    if err != nil {
        // Validate rejects bad currency codes before the engine is built.
        panic(err)
    }
    return amt
}

func dateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ReturnResult reports the outcome of a return: when the copy came back and
// what fine, if any, was assessed.
type ReturnResult struct {
    LendingID  uuid.UUID
    ReturnedAt time.Time
    Fine       money.Amount
}

// Service exposes the lending operations consumed by the HTTP layer.
type Service interface {
    Create(ctx context.Context, userID, bookID uuid.UUID) (library.Lending, error)
    Return(ctx context.Context, lendingID uuid.UUID, returnedAt *time.Time) (ReturnResult, error)
    ListActive(ctx context.Context, limit, offset int) ([]library.Lending, int, error)
    UserHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error)
}

type service struct {
    repo   Repo
    writer Writer
    policy Policy
}

// New constructs the lending engine with the given policy.
func New(repo Repo, writer Writer, policy Policy) Service {
    return &service{repo: repo, writer: writer, policy: policy}
}

// Create lends one copy of a book to a user. The cheap business-rule gates
// (limit, duplicate) run before the book is touched, so a rule violation
// never leaves a partial book mutation behind.
func (s *service) Create(ctx context.Context, userID, bookID uuid.UUID) (library.Lending, error) {
    if userID == uuid.Nil || bookID == uuid.Nil {
        return library.Lending{}, errs.ErrInvalid
    }

    active, err := s.repo.ActiveLendingsByUser(ctx, userID)
    if err != nil {
        return library.Lending{}, err
    }
    if len(active) >= s.policy.MaxLendings {
        return library.Lending{}, errs.ErrLendingLimitReached
    }

    if _, exists, err := s.repo.ActiveLendingByUserAndBook(ctx, userID, bookID); err != nil {
        return library.Lending{}, err
    } else if exists {
        return library.Lending{}, errs.ErrLendingAlreadyExists
    }

    book, err := s.repo.GetBook(ctx, bookID)
    if errors.Is(err, errs.ErrNotFound) {
        return library.Lending{}, errs.ErrBookNotAvailable
    }
    if err != nil {
        return library.Lending{}, err
    }
    if book.AvailableCopies < 1 {
        return library.Lending{}, errs.ErrBookNotAvailable
    }

    l := library.Lending{
        ID:          uuid.New(),
        UserID:      userID,
        BookID:      bookID,
        Quantity:    1,
        LendingDate: time.Now().UTC(),
    }
    // The writer re-checks availability inside its transaction; a
    // concurrent create that took the last copy surfaces here as
    // ErrBookNotAvailable rather than over-lending.
    return s.writer.CreateLending(ctx, l)
}

// Return transitions a lending from active to returned and assesses the
// fine. Returning an already-returned lending fails with
// ErrLendingNotFound; the active -> returned transition is one-way.
func (s *service) Return(ctx context.Context, lendingID uuid.UUID, returnedAt *time.Time) (ReturnResult, error) {
    if lendingID == uuid.Nil {
        return ReturnResult{}, errs.ErrInvalid
    }

    l, err := s.repo.LendingByID(ctx, lendingID)
    if errors.Is(err, errs.ErrNotFound) {
        return ReturnResult{}, errs.ErrLendingNotFound
    }
    if err != nil {
        return ReturnResult{}, err
    }
    if !l.IsActive() {
        return ReturnResult{}, errs.ErrLendingNotFound
    }

    at := time.Now().UTC()
    if returnedAt != nil {
        at = returnedAt.UTC()
    }

    if err := s.writer.CompleteLending(ctx, l.ID, at); err != nil {
        if errors.Is(err, errs.ErrNotFound) {
            // Concurrent return won the transition.
            return ReturnResult{}, errs.ErrLendingNotFound
        }
        return ReturnResult{}, err
    }

    return ReturnResult{LendingID: l.ID, ReturnedAt: at, Fine: s.policy.Fine(l.LendingDate, at)}, nil
}

func (s *service) ListActive(ctx context.Context, limit, offset int) ([]library.Lending, int, error) {
    return s.repo.ListActiveLendings(ctx, limit, offset)
}

func (s *service) UserHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]library.Lending, error) {
    if userID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    return s.repo.LendingsByUser(ctx, userID, limit, offset)
}
