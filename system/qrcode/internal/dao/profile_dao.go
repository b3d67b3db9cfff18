package dao

import (
	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	ProfileCollection      = "profiles"
	ProfileGroupCollection = "profile_groups"
)

type ProfileDao = mvc.IBaseDao[model.Profile]

type ProfileGroupDao = mvc.IBaseDao[model.ProfileGroup]

func NewProfileGormDao(db *gorm.DB) ProfileDao {
	return mvc.NewGormDao[model.Profile](db)
}

func NewProfileGroupGormDao(db *gorm.DB) ProfileGroupDao {
	return mvc.NewGormDao[model.ProfileGroup](db)
}

func NewProfileMongoDao(db *mongo.Database) ProfileDao {
	return mvc.NewMongoDao[model.Profile](db.Collection(ProfileCollection))
}

func NewProfileGroupMongoDao(db *mongo.Database) ProfileGroupDao {
	return mvc.NewMongoDao[model.ProfileGroup](db.Collection(ProfileGroupCollection))
}
