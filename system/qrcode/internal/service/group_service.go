package service

import (
	"context"
	"strings"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

// GroupService 名片分组
type GroupService struct {
	*mvc.BaseService[model.ProfileGroup]
	Profiles dao.ProfileDao
	log      *logger.Log
	err      *errorc.ErrorBuilder
}

func NewGroupService(groupDao dao.ProfileGroupDao, profiles dao.ProfileDao, log *logger.Log) *GroupService {
	return &GroupService{
		BaseService: mvc.NewBaseService(groupDao),
		Profiles:    profiles,
		log:         log.WithEntryName("GroupService"),
		err:         errorc.NewErrorBuilder("GroupService"),
	}
}

func (s *GroupService) Create(ctx context.Context, ownerID, name, color string) (*model.ProfileGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.err.New("参数校验失败", nil).WithFields(errorc.FieldError{Field: "name", Message: "name不能为空"})
	}
	g := &model.ProfileGroup{OwnerID: ownerID, Name: name, Color: color}
	g.Init(nowUTC())
	if err := s.Dao.Create(ctx, g); err != nil {
		return nil, s.err.New("创建分组失败", err).DB()
	}
	return g, nil
}

func (s *GroupService) Get(ctx context.Context, id, ownerID string) (*model.ProfileGroup, error) {
	g, err := s.FindById(ctx, id)
	if err != nil {
		return nil, s.err.New("分组不存在", err).DB()
	}
	if g.OwnerID != ownerID {
		return nil, s.err.New("分组不存在", nil).NotFound()
	}
	return g, nil
}

func (s *GroupService) List(ctx context.Context, ownerID string) ([]*model.ProfileGroup, error) {
	return s.Dao.FindByMap(ctx, map[string]interface{}{"owner_id": ownerID})
}

// Delete 删除分组，组内名片移出分组但保留
func (s *GroupService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}
	detached, err := s.Profiles.UpdateByMap(ctx,
		map[string]interface{}{"owner_id": ownerID, "group_id": id},
		map[string]interface{}{"group_id": nil})
	if err != nil {
		return s.err.New("移出分组失败", err).DB()
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return s.err.New("删除分组失败", err).DB()
	}
	s.log.WithOwnerID(ownerID).WithField("group", id).WithField("detached", detached).Info("删除分组")
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
