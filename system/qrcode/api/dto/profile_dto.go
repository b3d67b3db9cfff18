package dto

// VisibilityReq 公开页展示开关
type VisibilityReq struct {
	Company bool `json:"company" comment:"展示公司"`
	Email   bool `json:"email" comment:"展示邮箱"`
	Phone   bool `json:"phone" comment:"展示电话"`
	Website bool `json:"website" comment:"展示网站"`
	Address bool `json:"address" comment:"展示地址"`
}

// ProfileReq 创建与更新名片，未传字段保持不变
type ProfileReq struct {
	GroupID    *string        `json:"groupId" comment:"分组ID"`
	ClearGroup bool           `json:"clearGroup" comment:"移出分组"`
	Name       *string        `json:"name" validate:"omitempty,max=128" comment:"姓名"`
	Title      *string        `json:"title" validate:"omitempty,max=128" comment:"职位"`
	Company    *string        `json:"company" validate:"omitempty,max=128" comment:"公司"`
	Email      *string        `json:"email" validate:"omitempty,max=255" comment:"邮箱"`
	Phone      *string        `json:"phone" validate:"omitempty,max=64" comment:"电话"`
	Website    *string        `json:"website" validate:"omitempty,max=2048" comment:"网站"`
	Address    *string        `json:"address" validate:"omitempty,max=512" comment:"地址"`
	Bio        *string        `json:"bio" validate:"omitempty,max=2000" comment:"简介"`
	AvatarURL  *string        `json:"avatarUrl" validate:"omitempty,max=2048" comment:"头像"`
	Visibility *VisibilityReq `json:"visibility" comment:"公开页展示开关"`
}

// ListProfileReq 名片列表查询参数
type ListProfileReq struct {
	PageNum int    `query:"pageNum" validate:"gte=0" comment:"页码"`
	Size    int    `query:"size" validate:"gte=0,lte=100" comment:"页大小"`
	GroupID string `query:"groupId" comment:"分组ID"`
}

// GroupReq 创建分组
type GroupReq struct {
	Name  string `json:"name" validate:"required,max=64" comment:"分组名"`
	Color string `json:"color" validate:"max=16" comment:"颜色"`
}
