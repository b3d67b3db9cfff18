package service

import (
	"testing"
	"time"

	"qrhub/pkg/core/logger"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/dao/daotest"
)

type testEnv struct {
	qrDao     *dao.QRCodeGormDao
	eventDao  *dao.ScanEventGormDao
	qr        *QRCodeService
	campaigns *CampaignService
	resolver  *ResolverService
	scans     *ScanService
	analytics *AnalyticsService
	groups    *GroupService
	profiles  *ProfileService
	clock     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	db := daotest.NewDB(t)
	log := logger.GetLogger()

	env := &testEnv{
		qrDao:    dao.NewQRCodeGormDao(db, log),
		eventDao: dao.NewScanEventGormDao(db, log),
		clock:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	env.qr = NewQRCodeService(env.qrDao, QRCodeOptions{}, log)
	env.qr.now = func() time.Time { return env.clock }
	env.campaigns = NewCampaignService(env.qr, log)
	env.resolver = NewResolverService(env.qrDao, log)
	env.scans = NewScanService(env.qrDao, env.eventDao, log)
	env.analytics = NewAnalyticsService(env.qrDao, env.eventDao, log)

	profileDao := dao.NewProfileGormDao(db)
	env.groups = NewGroupService(dao.NewProfileGroupGormDao(db), profileDao, log)
	env.profiles = NewProfileService(profileDao, env.groups, log)
	return env
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func timePtr(v time.Time) *time.Time { return &v }
