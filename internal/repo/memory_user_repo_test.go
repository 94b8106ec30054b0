package repo

import (
	"context"
	"testing"
	"time"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aliceDOB = time.Date(1994, time.May, 4, 0, 0, 0, 0, time.UTC)

func alice() dom.User {
	return dom.User{Name: "Alice", Age: 30, DOB: aliceDOB, Gender: "Female", About: "hi", PasswordHash: "hash"}
}

func TestMemoryUserRepo_CreateGetList(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	r.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }

	created, err := r.Create(ctx, alice())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.PasswordHash)
	assert.Equal(t, r.now(), created.CreatedAt)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "hi", got.About)
	assert.Empty(t, got.PasswordHash)

	secret, err := r.GetWithSecret(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", secret.PasswordHash)

	bob := dom.User{Name: "Bob", Age: 40, DOB: aliceDOB.AddDate(-10, 0, 0), Gender: "Male", About: "b", PasswordHash: "h2"}
	_, err = r.Create(ctx, bob)
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)
	for _, u := range list {
		assert.Empty(t, u.PasswordHash)
		assert.Empty(t, u.About)
	}
}

func TestMemoryUserRepo_DuplicateIgnoresCaseAccentsWidth(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	_, err := r.Create(ctx, alice())
	require.NoError(t, err)

	for _, name := range []string{"alice", "ALICE", "Alicé", "Ａｌｉｃｅ"} {
		dup, err := r.FindDuplicate(ctx, dom.IdentityKey{Name: name, Age: 30, DOB: aliceDOB, Gender: "Female"}, "")
		require.NoError(t, err)
		assert.True(t, dup, "name %q", name)
	}

	dup, err := r.FindDuplicate(ctx, dom.IdentityKey{Name: "alice", Age: 31, DOB: aliceDOB, Gender: "Female"}, "")
	require.NoError(t, err)
	assert.False(t, dup)

	u := alice()
	u.Name = "aLiCe"
	_, err = r.Create(ctx, u)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryUserRepo_FindDuplicateExcludesSelf(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	created, err := r.Create(ctx, alice())
	require.NoError(t, err)

	dup, err := r.FindDuplicate(ctx, created.Key(), created.ID)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestMemoryUserRepo_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	created, err := r.Create(ctx, alice())
	require.NoError(t, err)

	about := "new bio"
	updated, err := r.Update(ctx, created.ID, dom.UserPatch{About: &about})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.About)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Empty(t, updated.PasswordHash)

	secret, err := r.GetWithSecret(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", secret.PasswordHash)

	_, err = r.Update(ctx, "missing", dom.UserPatch{About: &about})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepo_UpdateIntoDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	_, err := r.Create(ctx, alice())
	require.NoError(t, err)

	other := alice()
	other.Name = "Alicia"
	created, err := r.Create(ctx, other)
	require.NoError(t, err)

	name := "ALICE"
	_, err = r.Update(ctx, created.ID, dom.UserPatch{Name: &name})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryUserRepo_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	created, err := r.Create(ctx, alice())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
