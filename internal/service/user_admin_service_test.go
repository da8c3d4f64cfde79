package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/pkg/apperror"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username string, role string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestDelete_SelfTargetRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	admin := seedUser(t, repo, "admin", model.RoleAdmin)

	_, err := svc.Delete(context.Background(), admin.ID, admin.ID)

	assert.ErrorIs(t, err, apperror.ErrSelfTarget)

	_, err = repo.FindByID(context.Background(), admin.ID)
	assert.NoError(t, err, "the admin row must survive a self-delete attempt")
}

func TestDelete_OtherUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	admin := seedUser(t, repo, "admin", model.RoleAdmin)
	target := seedUser(t, repo, "mallika", model.RoleUser)

	deleted, err := svc.Delete(context.Background(), admin.ID, target.ID)

	require.NoError(t, err)
	assert.Equal(t, target.Username, deleted.Username)

	_, err = repo.FindByID(context.Background(), target.ID)
	assert.Error(t, err)
}

func TestBulk_ExcludesActor(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	admin := seedUser(t, repo, "admin", model.RoleAdmin)
	other := seedUser(t, repo, "rohit", model.RoleUser)

	affected, err := svc.Bulk(context.Background(), admin.ID, dto.BulkUserInput{
		Action:  "delete",
		UserIDs: []string{admin.ID.String(), other.ID.String()},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = repo.FindByID(context.Background(), admin.ID)
	assert.NoError(t, err, "bulk delete must never touch the acting admin")
}

func TestBulk_Deactivate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	admin := seedUser(t, repo, "admin", model.RoleAdmin)
	first := seedUser(t, repo, "anita", model.RoleUser)
	second := seedUser(t, repo, "vikram", model.RoleUser)

	affected, err := svc.Bulk(context.Background(), admin.ID, dto.BulkUserInput{
		Action:  "deactivate",
		UserIDs: []string{first.ID.String(), second.ID.String()},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		user, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, user.IsActive)
	}
}

func TestBulk_OnlyActorSelected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	admin := seedUser(t, repo, "admin", model.RoleAdmin)

	affected, err := svc.Bulk(context.Background(), admin.ID, dto.BulkUserInput{
		Action:  "delete",
		UserIDs: []string{admin.ID.String()},
	})

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestCreate_DuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	seedUser(t, repo, "existing", model.RoleUser)

	_, err := svc.Create(context.Background(), dto.CreateUserInput{
		Username: "fresh",
		Email:    "existing@example.com",
		Password: "secret123",
		Role:     model.RoleUser,
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdate_UsernameCollision(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	seedUser(t, repo, "taken", model.RoleUser)
	target := seedUser(t, repo, "old-name", model.RoleUser)

	_, _, err := svc.Update(context.Background(), target.ID, dto.UpdateUserInput{
		Username: "taken",
		Email:    target.Email,
		Role:     model.RoleUser,
		IsActive: true,
	})

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdate_ReturnsBeforeAndAfter(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserAdminService(repo)
	target := seedUser(t, repo, "priya", model.RoleUser)

	before, after, err := svc.Update(context.Background(), target.ID, dto.UpdateUserInput{
		Username: "priya",
		Email:    target.Email,
		Role:     model.RoleAdmin,
		IsActive: false,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, before.Role)
	assert.Equal(t, model.RoleAdmin, after.Role)
	assert.True(t, before.IsActive)
	assert.False(t, after.IsActive)
}
