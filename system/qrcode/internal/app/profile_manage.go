package app

import (
	"context"

	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
)

func (a *App) CreateProfile(ctx context.Context, ownerID string, in *service.ProfileInput) (*model.Profile, error) {
	return a.ProfileService.Create(ctx, ownerID, in)
}

func (a *App) GetProfile(ctx context.Context, ownerID, id string) (*model.Profile, error) {
	return a.ProfileService.Get(ctx, id, ownerID)
}

func (a *App) ListProfiles(ctx context.Context, ownerID, groupID string, page *mvc.Page) ([]*model.Profile, int64, error) {
	return a.ProfileService.List(ctx, ownerID, groupID, page)
}

func (a *App) UpdateProfile(ctx context.Context, ownerID, id string, in *service.ProfileInput) (*model.Profile, error) {
	return a.ProfileService.Update(ctx, id, ownerID, in)
}

// DeleteProfile 删除名片；引用它的名片码保留，公开页随之返回 404
func (a *App) DeleteProfile(ctx context.Context, ownerID, id string) error {
	return a.ProfileService.Delete(ctx, id, ownerID)
}

func (a *App) PublicProfile(ctx context.Context, id string) (*service.PublicProfile, error) {
	return a.ProfileService.GetPublic(ctx, id)
}

func (a *App) CreateGroup(ctx context.Context, ownerID, name, color string) (*model.ProfileGroup, error) {
	return a.GroupService.Create(ctx, ownerID, name, color)
}

func (a *App) ListGroups(ctx context.Context, ownerID string) ([]*model.ProfileGroup, error) {
	return a.GroupService.List(ctx, ownerID)
}

func (a *App) DeleteGroup(ctx context.Context, ownerID, id string) error {
	return a.GroupService.Delete(ctx, id, ownerID)
}
