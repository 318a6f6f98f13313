package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/owhenrique/library/internal/errs"
	"github.com/owhenrique/library/internal/library"
)

func newLending(userID, bookID uuid.UUID) library.Lending {
	return library.Lending{ID: uuid.New(), UserID: userID, BookID: bookID, Quantity: 1, LendingDate: time.Now().UTC()}
}

func TestCreateLending_DecrementsAtomically(t *testing.T) {
	ctx := context.Background()
	s := New()
	book := library.Book{ID: uuid.New(), Name: "Dune", Category: library.CategoryFiction, TotalCopies: 1, AvailableCopies: 1}
	s.SeedBook(book)

	// The last copy can only be handed out once, however many goroutines race.
	const workers = 16
	var wg sync.WaitGroup
	errsCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateLending(ctx, newLending(uuid.New(), book.ID))
			errsCh <- err
		}()
	}
	wg.Wait()
	close(errsCh)

	won := 0
	for err := range errsCh {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, errs.ErrBookNotAvailable)
		}
	}
	require.Equal(t, 1, won, "exactly one create should win the last copy")

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)
}

func TestCreateLending_MissingBook(t *testing.T) {
	s := New()
	_, err := s.CreateLending(context.Background(), newLending(uuid.New(), uuid.New()))
	require.ErrorIs(t, err, errs.ErrBookNotAvailable)
}

func TestCompleteLending_GuardsTransition(t *testing.T) {
	ctx := context.Background()
	s := New()
	book := library.Book{ID: uuid.New(), Name: "Dune", Category: library.CategoryFiction, TotalCopies: 2, AvailableCopies: 2}
	s.SeedBook(book)

	l, err := s.CreateLending(ctx, newLending(uuid.New(), book.ID))
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, s.CompleteLending(ctx, l.ID, at))

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AvailableCopies)

	// second completion is rejected, not a no-op
	err = s.CompleteLending(ctx, l.ID, at)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// unknown id
	err = s.CompleteLending(ctx, uuid.New(), at)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCompleteLending_MissingBookTolerated(t *testing.T) {
	ctx := context.Background()
	s := New()
	// Record references a book the store never had; the transition still runs.
	l := newLending(uuid.New(), uuid.New())
	s.SeedLending(l)

	require.NoError(t, s.CompleteLending(ctx, l.ID, time.Now().UTC()))
	got, err := s.LendingByID(ctx, l.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive())
}

func TestCompleteLending_CopiesExceedTotal(t *testing.T) {
	ctx := context.Background()
	s := New()
	book := library.Book{ID: uuid.New(), Name: "Dune", Category: library.CategoryFiction, TotalCopies: 1, AvailableCopies: 1}
	s.SeedBook(book)
	// Seeded record that never took a copy out: restoring one would exceed total.
	l := newLending(uuid.New(), book.ID)
	s.SeedLending(l)

	err := s.CompleteLending(ctx, l.ID, time.Now().UTC())
	require.ErrorIs(t, err, errs.ErrCopiesExceedTotal)

	// the transition must not have happened either
	got, err := s.LendingByID(ctx, l.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive())
}

func TestListActiveLendings_CountsActiveOnly(t *testing.T) {
	ctx := context.Background()
	s := New()
	book := library.Book{ID: uuid.New(), Name: "Dune", Category: library.CategoryFiction, TotalCopies: 5, AvailableCopies: 5}
	s.SeedBook(book)

	var first library.Lending
	for i := 0; i < 4; i++ {
		l, err := s.CreateLending(ctx, newLending(uuid.New(), book.ID))
		require.NoError(t, err)
		if i == 0 {
			first = l
		}
	}
	require.NoError(t, s.CompleteLending(ctx, first.ID, time.Now().UTC()))

	items, total, err := s.ListActiveLendings(ctx, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 2)

	items, _, err = s.ListActiveLendings(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestLendingsByUser_OrderedAndIncludesReturned(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID := uuid.New()
	bookA := library.Book{ID: uuid.New(), Name: "A", Category: library.CategoryOther, TotalCopies: 1, AvailableCopies: 1}
	bookB := library.Book{ID: uuid.New(), Name: "B", Category: library.CategoryOther, TotalCopies: 1, AvailableCopies: 1}
	s.SeedBook(bookA)
	s.SeedBook(bookB)

	la, err := s.CreateLending(ctx, newLending(userID, bookA.ID))
	require.NoError(t, err)
	lb, err := s.CreateLending(ctx, newLending(userID, bookB.ID))
	require.NoError(t, err)
	require.NoError(t, s.CompleteLending(ctx, la.ID, time.Now().UTC()))

	hist, err := s.LendingsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, la.ID, hist[0].ID)
	require.Equal(t, lb.ID, hist[1].ID)
	require.False(t, hist[0].IsActive())
	require.True(t, hist[1].IsActive())
}

func TestUserByEmail_CaseInsensitive(t *testing.T) {
	s := New()
	u := library.User{ID: uuid.New(), Name: "admin", Email: "admin@example.com", Role: library.RoleAdmin}
	s.SeedUser(u)

	got, ok, err := s.UserByEmail(context.Background(), "Admin@Example.COM")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u.ID, got.ID)

	_, ok, err = s.UserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.False(t, ok)
}
