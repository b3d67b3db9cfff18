package http

import (
	"strconv"

	"qrhub/pkg/core/mvc"
	"qrhub/system/qrcode/api/dto"
	internalapp "qrhub/system/qrcode/internal/app"
	"qrhub/system/qrcode/internal/dao"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
)

func toQRCodeDTO(a *internalapp.App, q *model.QRCode) *dto.QRCodeDTO {
	out := &dto.QRCodeDTO{
		ID:              q.ID,
		Code:            q.Code,
		Type:            string(q.Type),
		IsDynamic:       q.IsDynamic,
		Name:            q.Name,
		TargetURL:       q.TargetURL,
		ProfileID:       q.ProfileID,
		Color:           q.Color,
		BackgroundColor: q.BackgroundColor,
		EncodedContent:  a.EncodedContent(q),
		Scans:           q.Scans,
		LastScanAt:      q.LastScanAt,
		DeletedAt:       q.DeletedAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if q.IsDynamic {
		out.ShortURL = a.ShortURL(q.Code)
	}
	if q.IsCampaign() {
		c := q.Campaign
		out.Campaign = &dto.CampaignDTO{
			Objective:        c.Objective,
			DurationMode:     string(c.DurationMode),
			StartDate:        c.StartDate,
			EndDate:          c.EndDate,
			FallbackURL:      c.FallbackURL,
			RedirectBehavior: string(c.RedirectBehavior),
		}
		out.CampaignState = string(c.StateAt(a.Now()))
	}
	return out
}

func toQRCodeDTOs(a *internalapp.App, list []*model.QRCode) []*dto.QRCodeDTO {
	out := make([]*dto.QRCodeDTO, 0, len(list))
	for _, q := range list {
		out = append(out, toQRCodeDTO(a, q))
	}
	return out
}

func toCampaignSettings(req *dto.CampaignReq) *model.CampaignSettings {
	if req == nil {
		return nil
	}
	return &model.CampaignSettings{
		Objective:        req.Objective,
		DurationMode:     model.DurationMode(req.DurationMode),
		StartDate:        req.StartDate.ToTime(),
		EndDate:          req.EndDate.ToTime(),
		FallbackURL:      req.FallbackURL,
		RedirectBehavior: model.RedirectBehavior(req.RedirectBehavior),
	}
}

func toCreateInput(req *dto.CreateQRCodeReq) *service.CreateInput {
	return &service.CreateInput{
		Type:            model.QRType(req.Type),
		IsDynamic:       req.IsDynamic,
		Name:            req.Name,
		TargetURL:       req.TargetURL,
		ProfileID:       req.ProfileID,
		Color:           req.Color,
		BackgroundColor: req.BackgroundColor,
		Campaign:        toCampaignSettings(req.Campaign),
	}
}

func toUpdateInput(req *dto.UpdateQRCodeReq) *service.UpdateInput {
	return &service.UpdateInput{
		Name:            req.Name,
		TargetURL:       req.TargetURL,
		IsDynamic:       req.IsDynamic,
		Color:           req.Color,
		BackgroundColor: req.BackgroundColor,
		Campaign:        toCampaignSettings(req.Campaign),
	}
}

func toListQuery(req *dto.ListQRCodeReq) (dao.QRCodeFilter, *mvc.Page) {
	filter := dao.QRCodeFilter{
		Type:    model.QRType(req.Type),
		Deleted: req.Deleted,
		Keyword: req.Keyword,
	}
	if req.Dynamic != "" {
		v, _ := strconv.ParseBool(req.Dynamic)
		filter.Dynamic = &v
	}
	return filter, &mvc.Page{PageNum: req.PageNum, Size: req.Size, Sort: req.Sort, Desc: req.Desc}
}

func toProfileInput(req *dto.ProfileReq) *service.ProfileInput {
	in := &service.ProfileInput{
		GroupID:    req.GroupID,
		ClearGroup: req.ClearGroup,
		Name:       req.Name,
		Title:      req.Title,
		Company:    req.Company,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		Address:    req.Address,
		Bio:        req.Bio,
		AvatarURL:  req.AvatarURL,
	}
	if v := req.Visibility; v != nil {
		in.Visibility = &model.ProfileVisibility{
			Company: v.Company,
			Email:   v.Email,
			Phone:   v.Phone,
			Website: v.Website,
			Address: v.Address,
		}
	}
	return in
}
