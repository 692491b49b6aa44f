package user_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/okutsenko/flashwords/internal/adapter/postgres/testhelper"
	"github.com/okutsenko/flashwords/internal/adapter/postgres/user"
	"github.com/okutsenko/flashwords/internal/domain"
)

func newRepo(t *testing.T) *user.Repo {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool)
}

func testUser() domain.User {
	return domain.User{
		ID:   rand.Int63(),
		Name: "Тестовый Пользователь " + uuid.New().String()[:8],
	}
}

func assertIsDomainError(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected error %v, got %v", want, err)
	}
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	u := testUser()
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.ID != u.ID || got.Name != u.Name {
		t.Fatalf("GetByID: got %+v, want id=%d name=%q", got, u.ID, u.Name)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("GetByID: created_at was not set by the database")
	}
}

func TestRepo_Create_DuplicateID(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	u := testUser()
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	err := repo.Create(ctx, domain.User{ID: u.ID, Name: "Другое имя"})
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Create_InvalidName(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	long := make([]rune, domain.MaxUserNameLen+1)
	for i := range long {
		long[i] = 'a'
	}

	err := repo.Create(ctx, domain.User{ID: rand.Int63(), Name: string(long)})
	assertIsDomainError(t, err, domain.ErrValidation)
}

func TestRepo_Exists(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	u := testUser()

	exists, err := repo.Exists(ctx, u.ID)
	if err != nil {
		t.Fatalf("Exists before create: %v", err)
	}
	if exists {
		t.Fatal("Exists: reported true for a user that was never created")
	}

	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err = repo.Exists(ctx, u.ID)
	if err != nil {
		t.Fatalf("Exists after create: %v", err)
	}
	if !exists {
		t.Fatal("Exists: reported false for a created user")
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, rand.Int63())
	assertIsDomainError(t, err, domain.ErrNotFound)
}
