package service

import (
	"context"
	"testing"

	errorc "qrhub/pkg/core/err"
	"qrhub/system/qrcode/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.profiles.Create(ctx, "owner-1", &ProfileInput{Name: strPtr("  ")})
	assert.True(t, errorc.Is(err, errorc.ErrorCodeValid))

	p, err := env.profiles.Create(ctx, "owner-1", &ProfileInput{
		Name:       strPtr("Ada"),
		Company:    strPtr("Engines Ltd"),
		Email:      strPtr("ada@example.com"),
		Visibility: &model.ProfileVisibility{Email: true},
	})
	require.NoError(t, err)

	_, err = env.profiles.Get(ctx, p.ID, "owner-2")
	assert.True(t, errorc.IsNotFound(err))

	pub, err := env.profiles.GetPublic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", pub.Email)
	assert.Empty(t, pub.Company)

	updated, err := env.profiles.Update(ctx, p.ID, "owner-1", &ProfileInput{
		Title:      strPtr("Analyst"),
		Visibility: &model.ProfileVisibility{Company: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Analyst", updated.Title)
	assert.True(t, updated.Visibility.Company)
	assert.False(t, updated.Visibility.Email)

	list, total, err := env.profiles.List(ctx, "owner-1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	assert.True(t, errorc.IsNotFound(env.profiles.Delete(ctx, p.ID, "owner-2")))
	require.NoError(t, env.profiles.Delete(ctx, p.ID, "owner-1"))
	_, err = env.profiles.Get(ctx, p.ID, "owner-1")
	assert.True(t, errorc.IsNotFound(err))
}

func TestProfileService_GroupMustBeOwned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	mine, err := env.groups.Create(ctx, "owner-1", "clients", "#ff0000")
	require.NoError(t, err)
	theirs, err := env.groups.Create(ctx, "owner-2", "friends", "")
	require.NoError(t, err)

	_, err = env.profiles.Create(ctx, "owner-1", &ProfileInput{Name: strPtr("Bob"), GroupID: &theirs.ID})
	require.Error(t, err)
	require.Len(t, errorc.ParseError(err).Fields, 1)
	assert.Equal(t, "groupId", errorc.ParseError(err).Fields[0].Field)

	p, err := env.profiles.Create(ctx, "owner-1", &ProfileInput{Name: strPtr("Bob"), GroupID: &mine.ID})
	require.NoError(t, err)
	require.NotNil(t, p.GroupID)

	list, total, err := env.profiles.List(ctx, "owner-1", mine.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, p.ID, list[0].ID)

	// 删除分组后名片保留，分组置空
	assert.True(t, errorc.IsNotFound(env.groups.Delete(ctx, mine.ID, "owner-2")))
	require.NoError(t, env.groups.Delete(ctx, mine.ID, "owner-1"))
	got, err := env.profiles.Get(ctx, p.ID, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)

	groups, err := env.groups.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, groups)
}
