package book

import (
    "context"
    "errors"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/errs"
    "github.com/owhenrique/library/internal/library"
)

// Repo defines read operations needed by the book service.
type Repo interface {
    GetBook(ctx context.Context, id uuid.UUID) (library.Book, error)
    BookByNameAuthor(ctx context.Context, name, author string) (library.Book, bool, error)
    ListBooks(ctx context.Context, limit, offset int) ([]library.Book, int, error)
}

// Writer defines write operations needed by the book service.
type Writer interface {
    CreateBook(ctx context.Context, b library.Book) (library.Book, error)
    AddBookCopies(ctx context.Context, id uuid.UUID, qty int) (library.Book, error)
}

// CreateInput carries the fields required to register a title.
type CreateInput struct {
    Name        string
    Author      string
    Category    library.Category
    TotalCopies int
}

// Availability is the copy-count snapshot for a single title.
type Availability struct {
    BookID          uuid.UUID
    AvailableCopies int
    IsAvailable     bool
}

// Service exposes catalog operations.
type Service interface {
    Create(ctx context.Context, in CreateInput) (library.Book, error)
    Get(ctx context.Context, id uuid.UUID) (library.Book, error)
    List(ctx context.Context, limit, offset int) ([]library.Book, int, error)
    Availability(ctx context.Context, id uuid.UUID) (Availability, error)
    AddCopies(ctx context.Context, id uuid.UUID, qty int) (library.Book, error)
}

type service struct {
    repo   Repo
    writer Writer
}

// New wires a book service over the given repo and writer.
func New(repo Repo, writer Writer) Service {
    return &service{repo: repo, writer: writer}
}

// Create registers a new title. The (name, author) pair is unique; a new
// book starts with every copy on the shelf.
func (s *service) Create(ctx context.Context, in CreateInput) (library.Book, error) {
    in.Name = strings.TrimSpace(in.Name)
    in.Author = strings.TrimSpace(in.Author)
    if in.Name == "" || in.Author == "" {
        return library.Book{}, errs.ErrUnprocessable
    }
    if !in.Category.Valid() {
        return library.Book{}, errs.ErrUnprocessable
    }
    if in.TotalCopies < 1 {
        return library.Book{}, errs.ErrUnprocessable
    }
    if _, ok, err := s.repo.BookByNameAuthor(ctx, in.Name, in.Author); err != nil {
        return library.Book{}, err
    } else if ok {
        return library.Book{}, errs.ErrBookAlreadyExists
    }
    b := library.Book{
        ID:              uuid.New(),
        Name:            in.Name,
        Author:          in.Author,
        Category:        in.Category,
        TotalCopies:     in.TotalCopies,
        AvailableCopies: in.TotalCopies,
        CreatedAt:       time.Now().UTC(),
    }
    return s.writer.CreateBook(ctx, b)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (library.Book, error) {
    b, err := s.repo.GetBook(ctx, id)
    if errors.Is(err, errs.ErrNotFound) {
        return library.Book{}, errs.ErrBookNotFound
    }
    return b, err
}

func (s *service) List(ctx context.Context, limit, offset int) ([]library.Book, int, error) {
    return s.repo.ListBooks(ctx, limit, offset)
}

// Availability reports the live copy count for a title.
func (s *service) Availability(ctx context.Context, id uuid.UUID) (Availability, error) {
    b, err := s.Get(ctx, id)
    if err != nil {
        return Availability{}, err
    }
    return Availability{
        BookID:          b.ID,
        AvailableCopies: b.AvailableCopies,
        IsAvailable:     b.AvailableCopies > 0,
    }, nil
}

// AddCopies grows a title's inventory.
func (s *service) AddCopies(ctx context.Context, id uuid.UUID, qty int) (library.Book, error) {
    if qty <= 0 {
        return library.Book{}, errs.ErrUnprocessable
    }
    b, err := s.writer.AddBookCopies(ctx, id, qty)
    if errors.Is(err, errs.ErrNotFound) {
        return library.Book{}, errs.ErrBookNotFound
    }
    return b, err
}
