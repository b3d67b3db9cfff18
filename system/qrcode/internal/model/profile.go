package model

import "qrhub/pkg/core/model/common"

// Profile 电子名片
type Profile struct {
	common.Model `bson:",inline"`
	OwnerID      string  `gorm:"type:varchar(64);not null;index" bson:"owner_id" json:"ownerId"`
	GroupID      *string `gorm:"type:varchar(36);index" bson:"group_id" json:"groupId"`
	Name         string  `gorm:"type:varchar(128);not null" bson:"name" json:"name"`
	Title        string  `gorm:"type:varchar(128)" bson:"title" json:"title"`
	Company      string  `gorm:"type:varchar(128)" bson:"company" json:"company"`
	Email        string  `gorm:"type:varchar(255)" bson:"email" json:"email"`
	Phone        string  `gorm:"type:varchar(64)" bson:"phone" json:"phone"`
	Website      string  `gorm:"type:varchar(2048)" bson:"website" json:"website"`
	Address      string  `gorm:"type:varchar(512)" bson:"address" json:"address"`
	Bio          string  `gorm:"type:text" bson:"bio" json:"bio"`
	AvatarURL    string  `gorm:"type:varchar(2048)" bson:"avatar_url" json:"avatarUrl"`
	// Visibility 公开页上各联系方式是否展示，两种存储中均平铺为 show_* 字段
	Visibility ProfileVisibility `gorm:"embedded;embeddedPrefix:show_" bson:",inline" json:"visibility"`
}

type ProfileVisibility struct {
	Company bool `gorm:"not null" bson:"show_company" json:"company"`
	Email   bool `gorm:"not null" bson:"show_email" json:"email"`
	Phone   bool `gorm:"not null" bson:"show_phone" json:"phone"`
	Website bool `gorm:"not null" bson:"show_website" json:"website"`
	Address bool `gorm:"not null" bson:"show_address" json:"address"`
}

// TableName 设置表名
func (Profile) TableName() string {
	return "profiles"
}

// ProfileGroup 名片分组
type ProfileGroup struct {
	common.Model `bson:",inline"`
	OwnerID      string `gorm:"type:varchar(64);not null;index" bson:"owner_id" json:"ownerId"`
	Name         string `gorm:"type:varchar(64);not null" bson:"name" json:"name"`
	Color        string `gorm:"type:varchar(16)" bson:"color" json:"color"`
}

// TableName 设置表名
func (ProfileGroup) TableName() string {
	return "profile_groups"
}
