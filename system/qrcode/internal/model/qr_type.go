package model

// QRType 二维码类型
type QRType string

const (
	// QRTypeURL 普通网址码
	QRTypeURL QRType = "URL"
	// QRTypeProfile 电子名片分享码，目标为名片公开页
	QRTypeProfile QRType = "PROFILE"
	// QRTypeCampaign 营销活动码，始终为动态码
	QRTypeCampaign QRType = "CAMPAIGN"
)

func (t QRType) IsValid() bool {
	switch t {
	case QRTypeURL, QRTypeProfile, QRTypeCampaign:
		return true
	}
	return false
}
