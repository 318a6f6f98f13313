package user

import (
    "context"
    "errors"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
)

// Repo defines read operations needed by the user service.
type Repo interface {
    GetUser(ctx context.Context, id uuid.UUID) (library.User, error)
    UserByEmail(ctx context.Context, email string) (library.User, bool, error)
    ListUsers(ctx context.Context, limit, offset int) ([]library.User, int, error)
}

// Writer defines write operations needed by the user service.
type Writer interface {
    CreateUser(ctx context.Context, u library.User) (library.User, error)
}

// CreateInput carries the fields required to register an account.
type CreateInput struct {
    Name     string
    Email    string
    Password string
    Role     library.Role
}

// Service exposes account operations.
type Service interface {
    Create(ctx context.Context, in CreateInput) (library.User, error)
    Get(ctx context.Context, id uuid.UUID) (library.User, error)
    List(ctx context.Context, limit, offset int) ([]library.User, int, error)
    Authenticate(ctx context.Context, email, password string) (library.User, error)
}

type service struct {
    repo   Repo
    writer Writer
}

// New wires a user service over the given repo and writer.
func New(repo Repo, writer Writer) Service {
    return &service{repo: repo, writer: writer}
}

// Create registers an account. Email is the login identity and must be
// unique (case-insensitive).
func (s *service) Create(ctx context.Context, in CreateInput) (library.User, error) {
    in.Name = strings.TrimSpace(in.Name)
    in.Email = strings.TrimSpace(in.Email)
    if in.Name == "" || in.Email == "" || in.Password == "" {
        return library.User{}, errs.ErrUnprocessable
    }
    if !in.Role.Valid() {
        return library.User{}, errs.ErrUnprocessable
    }
    if _, ok, err := s.repo.UserByEmail(ctx, in.Email); err != nil {
        return library.User{}, err
    } else if ok {
        return library.User{}, errs.ErrEmailTaken
    }
    hash, err := hashPassword(in.Password)
    if err != nil {
        return library.User{}, err
    }
    u := library.User{
        ID:           uuid.New(),
        Name:         in.Name,
        Email:        in.Email,
        PasswordHash: hash,
        Role:         in.Role,
        CreatedAt:    time.Now().UTC(),
    }
    return s.writer.CreateUser(ctx, u)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (library.User, error) {
    u, err := s.repo.GetUser(ctx, id)
    if errors.Is(err, errs.ErrNotFound) {
        return library.User{}, errs.ErrUserNotFound
    }
    return u, err
}

func (s *service) List(ctx context.Context, limit, offset int) ([]library.User, int, error) {
    return s.repo.ListUsers(ctx, limit, offset)
}

// Authenticate resolves the account by email and checks the password.
func (s *service) Authenticate(ctx context.Context, email, password string) (library.User, error) {
    u, ok, err := s.repo.UserByEmail(ctx, email)
    if err != nil {
        return library.User{}, err
    }
    if !ok {
        return library.User{}, errs.ErrUserNotFound
    }
    match, err := verifyPassword(password, u.PasswordHash)
    if err != nil {
        return library.User{}, err
    }
    if !match {
        return library.User{}, errs.ErrIncorrectPassword
    }
    return u, nil
}
