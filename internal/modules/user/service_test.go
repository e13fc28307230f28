package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type adminsOnly map[uuid.UUID]bool

func (a adminsOnly) Require(_ context.Context, userID uuid.UUID, perm access.Permission, _ uuid.UUID) error {
	if perm == access.PermRolesManage && a[userID] {
		return nil
	}
	return apperr.ErrDenied
}

func newTestService(admins ...uuid.UUID) Service {
	a := adminsOnly{}
	for _, id := range admins {
		a[id] = true
	}
	svc := NewService(NewMemoryRepository(), a)
	svc.(*service).cost = bcrypt.MinCost
	return svc
}

func TestRegisterUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := uuid.New()
	svc := newTestService(admin)

	u, err := svc.RegisterUser(ctx, admin, RegisterRequest{
		Email:     " Cashier@Example.com ",
		Password:  "correct horse",
		FirstName: "Mutale",
	})
	require.NoError(t, err)
	require.Equal(t, "cashier@example.com", u.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))

	_, err = svc.RegisterUser(ctx, admin, RegisterRequest{Email: "cashier@example.com", Password: "another one"})
	require.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestRegisterUserValidation(t *testing.T) {
	t.Parallel()
	admin := uuid.New()
	svc := newTestService(admin)

	cases := []struct {
		name  string
		actor uuid.UUID
		req   RegisterRequest
		want  error
	}{
		{"not an admin", uuid.New(), RegisterRequest{Email: "a@b.co", Password: "longenough"}, apperr.ErrDenied},
		{"bad email", admin, RegisterRequest{Email: "nope", Password: "longenough"}, apperr.ErrValidation},
		{"short password", admin, RegisterRequest{Email: "a@b.co", Password: "short"}, apperr.ErrValidation},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.RegisterUser(context.Background(), tc.actor, tc.req)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestGetUserVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := uuid.New()
	svc := newTestService(admin)

	u, err := svc.RegisterUser(ctx, admin, RegisterRequest{Email: "staff@example.com", Password: "longenough"})
	require.NoError(t, err)

	self, err := svc.GetUser(ctx, u.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, self.Email)

	_, err = svc.GetUser(ctx, uuid.New(), u.ID)
	require.True(t, errors.Is(err, apperr.ErrDenied))

	_, err = svc.GetUser(ctx, admin, uuid.New())
	require.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.GetUser(ctx, uuid.Nil, u.ID)
	require.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestDirectoryUserExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := uuid.New()
	repo := NewMemoryRepository()
	svc := NewService(repo, adminsOnly{admin: true})
	svc.(*service).cost = bcrypt.MinCost

	u, err := svc.RegisterUser(ctx, admin, RegisterRequest{Email: "printer@example.com", Password: "long enough secret"})
	require.NoError(t, err)

	dir := NewDirectory(repo)
	require.NoError(t, dir.UserExists(ctx, u.ID))
	require.True(t, errors.Is(dir.UserExists(ctx, uuid.New()), apperr.ErrNotFound))
}
