package service

import (
	"context"
	"strings"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
)

// ProfileInput 创建与更新名片的参数，更新时 nil 字段保持不变
type ProfileInput struct {
	GroupID    *string
	Name       *string
	Title      *string
	Company    *string
	Email      *string
	Phone      *string
	Website    *string
	Address    *string
	Bio        *string
	AvatarURL  *string
	Visibility *model.ProfileVisibility
	// ClearGroup 为 true 时移出分组
	ClearGroup bool
}

// PublicProfile 公开页展示的名片，不可见字段置空
type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Company   string `json:"company,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	Address   string `json:"address,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ProfileService 名片管理，所有操作按所有者隔离
type ProfileService struct {
	*mvc.BaseService[model.Profile]
	Groups *GroupService
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

func NewProfileService(profileDao dao.ProfileDao, groups *GroupService, log *logger.Log) *ProfileService {
	return &ProfileService{
		BaseService: mvc.NewBaseService(profileDao),
		Groups:      groups,
		log:         log.WithEntryName("ProfileService"),
		err:         errorc.NewErrorBuilder("ProfileService"),
	}
}

// checkGroup 分组必须存在且属于当前所有者
func (s *ProfileService) checkGroup(ctx context.Context, ownerID string, groupID *string) error {
	if groupID == nil || *groupID == "" {
		return nil
	}
	if _, err := s.Groups.Get(ctx, *groupID, ownerID); err != nil {
		if errorc.IsNotFound(err) {
			return s.err.New("参数校验失败", nil).WithFields(errorc.FieldError{Field: "groupId", Message: "分组不存在"})
		}
		return err
	}
	return nil
}

func (s *ProfileService) Create(ctx context.Context, ownerID string, in *ProfileInput) (*model.Profile, error) {
	p := &model.Profile{OwnerID: ownerID}
	in.apply(p)
	if strings.TrimSpace(p.Name) == "" {
		return nil, s.err.New("参数校验失败", nil).WithFields(errorc.FieldError{Field: "name", Message: "name不能为空"})
	}
	if p.GroupID != nil && *p.GroupID == "" {
		p.GroupID = nil
	}
	if err := s.checkGroup(ctx, ownerID, p.GroupID); err != nil {
		return nil, err
	}

	p.Init(nowUTC())
	if err := s.Dao.Create(ctx, p); err != nil {
		return nil, s.err.New("创建名片失败", err).DB()
	}
	return p, nil
}

// Get 跨所有者访问视为不存在
func (s *ProfileService) Get(ctx context.Context, id, ownerID string) (*model.Profile, error) {
	p, err := s.FindById(ctx, id)
	if err != nil {
		return nil, s.err.New("名片不存在", err).DB()
	}
	if p.OwnerID != ownerID {
		return nil, s.err.New("名片不存在", nil).NotFound()
	}
	return p, nil
}

// GetPublic 公开页读取
func (s *ProfileService) GetPublic(ctx context.Context, id string) (*PublicProfile, error) {
	p, err := s.FindById(ctx, id)
	if err != nil {
		return nil, s.err.New("名片不存在", err).DB()
	}
	return PublicView(p), nil
}

func (s *ProfileService) List(ctx context.Context, ownerID string, groupID string, page *mvc.Page) ([]*model.Profile, int64, error) {
	cond := map[string]interface{}{"owner_id": ownerID}
	if groupID != "" {
		cond["group_id"] = groupID
	}
	p := mvc.Page{}
	if page != nil {
		p = *page
	}
	if p.Sort == "" {
		p.Sort = "created_at"
		p.Desc = true
	}
	return s.FindPageByMap(ctx, &p, cond)
}

func (s *ProfileService) Update(ctx context.Context, id, ownerID string, in *ProfileInput) (*model.Profile, error) {
	current, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := in.fields()
	if in.GroupID != nil && *in.GroupID != "" {
		if err := s.checkGroup(ctx, ownerID, in.GroupID); err != nil {
			return nil, err
		}
		updates["group_id"] = *in.GroupID
	}
	if in.ClearGroup {
		updates["group_id"] = nil
	}
	if name, ok := updates["name"].(string); ok && strings.TrimSpace(name) == "" {
		return nil, s.err.New("参数校验失败", nil).WithFields(errorc.FieldError{Field: "name", Message: "name不能为空"})
	}
	if len(updates) == 0 {
		return current, nil
	}

	updates["updated_at"] = nowUTC()
	if err := s.Dao.UpdateFields(ctx, id, updates); err != nil {
		return nil, s.err.New("更新名片失败", err).DB()
	}
	return s.Get(ctx, id, ownerID)
}

func (s *ProfileService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return s.err.New("删除名片失败", err).DB()
	}
	return nil
}

// PublicView 按可见性裁剪联系方式
func PublicView(p *model.Profile) *PublicProfile {
	v := &PublicProfile{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
	if p.Visibility.Company {
		v.Company = p.Company
	}
	if p.Visibility.Email {
		v.Email = p.Email
	}
	if p.Visibility.Phone {
		v.Phone = p.Phone
	}
	if p.Visibility.Website {
		v.Website = p.Website
	}
	if p.Visibility.Address {
		v.Address = p.Address
	}
	return v
}

func (in *ProfileInput) apply(p *model.Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	p.GroupID = in.GroupID
	set(&p.Name, in.Name)
	set(&p.Title, in.Title)
	set(&p.Company, in.Company)
	set(&p.Email, in.Email)
	set(&p.Phone, in.Phone)
	set(&p.Website, in.Website)
	set(&p.Address, in.Address)
	set(&p.Bio, in.Bio)
	set(&p.AvatarURL, in.AvatarURL)
	if in.Visibility != nil {
		p.Visibility = *in.Visibility
	}
}

// fields 生成更新用的列名映射，gorm 与 mongo 字段同名
func (in *ProfileInput) fields() map[string]interface{} {
	updates := make(map[string]interface{})
	put := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	put("name", in.Name)
	put("title", in.Title)
	put("company", in.Company)
	put("email", in.Email)
	put("phone", in.Phone)
	put("website", in.Website)
	put("address", in.Address)
	put("bio", in.Bio)
	put("avatar_url", in.AvatarURL)
	if in.Visibility != nil {
		updates["show_company"] = in.Visibility.Company
		updates["show_email"] = in.Visibility.Email
		updates["show_phone"] = in.Visibility.Phone
		updates["show_website"] = in.Visibility.Website
		updates["show_address"] = in.Visibility.Address
	}
	return updates
}
