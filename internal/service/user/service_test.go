package user

import (
    "context"
    "testing"

    "github.com/google/uuid"
    "github.com/stretchr/testify/require"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/storage/memory"
)

func newService() Service {
    st := memory.New()
    return New(st, st)
}

func TestCreateAndAuthenticate(t *testing.T) {
    svc := newService()
    ctx := context.Background()

    u, err := svc.Create(ctx, CreateInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: library.RoleReader})
    require.NoError(t, err)
    require.NotEqual(t, uuid.Nil, u.ID)
    require.NotEmpty(t, u.PasswordHash)
    require.NotContains(t, u.PasswordHash, "s3cret")

    got, err := svc.Authenticate(ctx, "alice@example.com", "s3cret")
    require.NoError(t, err)
    require.Equal(t, u.ID, got.ID)

    _, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
    require.ErrorIs(t, err, errs.ErrIncorrectPassword)

    _, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret")
    require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
    svc := newService()
    ctx := context.Background()

    _, err := svc.Create(ctx, CreateInput{Name: "Alice", Email: "alice@example.com", Password: "x", Role: library.RoleReader})
    require.NoError(t, err)

    // same address, different case
    _, err = svc.Create(ctx, CreateInput{Name: "Other", Email: "Alice@Example.com", Password: "y", Role: library.RoleReader})
    require.ErrorIs(t, err, errs.ErrEmailTaken)
}

func TestCreate_RejectsBadInput(t *testing.T) {
    svc := newService()
    ctx := context.Background()

    cases := []CreateInput{
        {Name: "", Email: "a@b.com", Password: "x", Role: library.RoleReader},
        {Name: "A", Email: "  ", Password: "x", Role: library.RoleReader},
        {Name: "A", Email: "a@b.com", Password: "", Role: library.RoleReader},
        {Name: "A", Email: "a@b.com", Password: "x", Role: "janitor"},
    }
    for _, in := range cases {
        _, err := svc.Create(ctx, in)
        require.ErrorIs(t, err, errs.ErrUnprocessable, "input %+v", in)
    }
}

func TestGet_MapsNotFound(t *testing.T) {
    svc := newService()
    _, err := svc.Get(context.Background(), uuid.New())
    require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestPasswordHash_RoundTrip(t *testing.T) {
    h1, err := hashPassword("hunter2")
    require.NoError(t, err)
    h2, err := hashPassword("hunter2")
    require.NoError(t, err)
    require.NotEqual(t, h1, h2, "salts must differ between hashes")

    ok, err := verifyPassword("hunter2", h1)
    require.NoError(t, err)
    require.True(t, ok)

    ok, err = verifyPassword("hunter3", h1)
    require.NoError(t, err)
    require.False(t, ok)

    _, err = verifyPassword("hunter2", "not-an-encoded-hash")
    require.Error(t, err)
}
