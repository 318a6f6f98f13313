package book

import (
    "context"
    "testing"

    "github.com/google/uuid"
    "github.com/stretchr/testify/require"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/storage/memory"
)

func newService() (Service, *memory.Store) {
    st := memory.New()
    return New(st, st), st
}

func TestCreate_RegistersTitle(t *testing.T) {
    svc, _ := newService()
    ctx := context.Background()

    b, err := svc.Create(ctx, CreateInput{Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 3})
    require.NoError(t, err)
    require.NotEqual(t, uuid.Nil, b.ID)
    require.Equal(t, 3, b.TotalCopies)
    require.Equal(t, 3, b.AvailableCopies)
}

func TestCreate_RejectsBadInput(t *testing.T) {
    svc, _ := newService()
    ctx := context.Background()

    cases := []CreateInput{
        {Name: "", Author: "A", Category: library.CategoryFiction, TotalCopies: 1},
        {Name: "B", Author: "  ", Category: library.CategoryFiction, TotalCopies: 1},
        {Name: "B", Author: "A", Category: "poetry", TotalCopies: 1},
        {Name: "B", Author: "A", Category: library.CategoryFiction, TotalCopies: 0},
    }
    for _, in := range cases {
        _, err := svc.Create(ctx, in)
        require.ErrorIs(t, err, errs.ErrUnprocessable, "input %+v", in)
    }
}

func TestCreate_RejectsDuplicateNameAuthor(t *testing.T) {
    svc, _ := newService()
    ctx := context.Background()

    _, err := svc.Create(ctx, CreateInput{Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 1})
    require.NoError(t, err)
    _, err = svc.Create(ctx, CreateInput{Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 2})
    require.ErrorIs(t, err, errs.ErrBookAlreadyExists)
}

func TestGet_MapsNotFound(t *testing.T) {
    svc, _ := newService()
    _, err := svc.Get(context.Background(), uuid.New())
    require.ErrorIs(t, err, errs.ErrBookNotFound)
}

func TestAvailability_TracksCopies(t *testing.T) {
    svc, st := newService()
    ctx := context.Background()

    b, err := svc.Create(ctx, CreateInput{Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 1})
    require.NoError(t, err)

    av, err := svc.Availability(ctx, b.ID)
    require.NoError(t, err)
    require.True(t, av.IsAvailable)
    require.Equal(t, 1, av.AvailableCopies)

    _, err = st.CreateLending(ctx, library.Lending{ID: uuid.New(), UserID: uuid.New(), BookID: b.ID, Quantity: 1})
    require.NoError(t, err)

    av, err = svc.Availability(ctx, b.ID)
    require.NoError(t, err)
    require.False(t, av.IsAvailable)
    require.Equal(t, 0, av.AvailableCopies)
}

func TestAddCopies(t *testing.T) {
    svc, _ := newService()
    ctx := context.Background()

    b, err := svc.Create(ctx, CreateInput{Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 1})
    require.NoError(t, err)

    grown, err := svc.AddCopies(ctx, b.ID, 4)
    require.NoError(t, err)
    require.Equal(t, 5, grown.TotalCopies)
    require.Equal(t, 5, grown.AvailableCopies)

    _, err = svc.AddCopies(ctx, b.ID, 0)
    require.ErrorIs(t, err, errs.ErrUnprocessable)

    _, err = svc.AddCopies(ctx, uuid.New(), 1)
    require.ErrorIs(t, err, errs.ErrBookNotFound)
}
