package http

import (
	"strconv"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/result"
	"qrhub/pkg/core/security"
	"qrhub/pkg/core/util"
	"qrhub/system/qrcode/api/dto"
	internalapp "qrhub/system/qrcode/internal/app"
	"qrhub/system/qrcode/internal/model"
	"qrhub/system/qrcode/internal/service"
	"qrhub/utils"

	"github.com/gofiber/fiber/v2"
)

// QRCodeAPIController 所有者二维码管理与统计
type QRCodeAPIController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewQRCodeAPIController(app *internalapp.App) *QRCodeAPIController {
	return &QRCodeAPIController{
		app: app,
		err: errorc.NewErrorBuilder("QRCodeAPIController"),
		log: logger.GetLogger().WithEntryName("QRCodeAPIController"),
	}
}

// RegisterRoutes 注册路由，调用方负责挂载鉴权
func (c *QRCodeAPIController) RegisterRoutes(api fiber.Router) {
	qr := api.Group("/qr-codes")
	qr.Post("/", c.Create)
	qr.Get("/", c.List)
	qr.Get("/:id", c.Get)
	qr.Patch("/:id", c.Update)
	qr.Delete("/:id", c.Delete)
	qr.Post("/:id/restore", c.Restore)
	qr.Delete("/:id/permanent", c.Purge)

	// 单码统计
	qr.Get("/:id/timeline", c.Timeline)
	qr.Get("/:id/devices", c.Devices)
	qr.Get("/:id/browsers", c.Browsers)
	qr.Get("/:id/stats", c.Stats)

	// 所有者维度统计
	analytics := api.Group("/analytics")
	analytics.Get("/top", c.Top)
	analytics.Get("/summary", c.Summary)

	// 活动码
	campaigns := api.Group("/campaigns")
	campaigns.Post("/", c.CreateCampaign)
	campaigns.Patch("/:id", c.UpdateCampaign)
}

// Create 创建二维码
func (c *QRCodeAPIController) Create(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateQRCodeReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	q, err := c.app.CreateQRCode(util.Context(ctx), ownerID, toCreateInput(&req))
	if err != nil {
		return err
	}
	return result.Created(ctx, toQRCodeDTO(c.app, q))
}

// List 分页查询，deleted=true 时查询回收站
func (c *QRCodeAPIController) List(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListQRCodeReq
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx))
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	filter, page := toListQuery(&req)
	list, total, err := c.app.ListQRCodes(util.Context(ctx), ownerID, filter, page)
	if err != nil {
		return err
	}
	return result.Page(ctx, toQRCodeDTOs(c.app, list), total)
}

func (c *QRCodeAPIController) Get(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	q, err := c.app.GetQRCode(util.Context(ctx), ownerID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTO(c.app, q))
}

// Update 部分更新；静态码不允许修改目标地址
func (c *QRCodeAPIController) Update(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateQRCodeReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	q, err := c.app.UpdateQRCode(util.Context(ctx), ownerID, ctx.Params("id"), toUpdateInput(&req))
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTO(c.app, q))
}

// Delete 移入回收站
func (c *QRCodeAPIController) Delete(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	q, err := c.app.DeleteQRCode(util.Context(ctx), ownerID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTO(c.app, q))
}

func (c *QRCodeAPIController) Restore(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	q, err := c.app.RestoreQRCode(util.Context(ctx), ownerID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTO(c.app, q))
}

// Purge 永久删除，只能删除回收站中的二维码
func (c *QRCodeAPIController) Purge(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	if err := c.app.PurgeQRCode(util.Context(ctx), ownerID, ctx.Params("id")); err != nil {
		return err
	}
	return result.NoContent(ctx)
}

// Timeline 最近 days 天的每日扫码数，缺省 30 天
func (c *QRCodeAPIController) Timeline(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	days, err := queryInt(ctx, "days", service.DefaultTimelineDays)
	if err != nil {
		return c.err.New("days参数错误", err).WithFields(errorc.FieldError{Field: "days", Message: "days必须是整数"})
	}

	points, err := c.app.Timeline(util.Context(ctx), ownerID, ctx.Params("id"), days)
	if err != nil {
		return err
	}
	return result.OK(ctx, points)
}

func (c *QRCodeAPIController) Devices(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	counts, err := c.app.DeviceBreakdown(util.Context(ctx), ownerID, ctx.Params("id"))
	return result.Once(ctx, counts, err)
}

func (c *QRCodeAPIController) Browsers(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	counts, err := c.app.BrowserBreakdown(util.Context(ctx), ownerID, ctx.Params("id"))
	return result.Once(ctx, counts, err)
}

func (c *QRCodeAPIController) Stats(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	stats, err := c.app.Stats(util.Context(ctx), ownerID, ctx.Params("id"))
	return result.Once(ctx, stats, err)
}

// Top 扫码量排行
func (c *QRCodeAPIController) Top(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	limit, err := queryInt(ctx, "limit", service.DefaultTopLimit)
	if err != nil {
		return c.err.New("limit参数错误", err).WithFields(errorc.FieldError{Field: "limit", Message: "limit必须是整数"})
	}

	list, err := c.app.TopPerformers(util.Context(ctx), ownerID, limit)
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTOs(c.app, list))
}

func (c *QRCodeAPIController) Summary(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	summary, err := c.app.OwnerSummary(util.Context(ctx), ownerID)
	return result.Once(ctx, summary, err)
}

// CreateCampaign 创建活动码
func (c *QRCodeAPIController) CreateCampaign(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateCampaignReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	in := &service.CreateInput{
		Type:            model.QRTypeCampaign,
		IsDynamic:       true,
		Name:            req.Name,
		TargetURL:       req.TargetURL,
		Color:           req.Color,
		BackgroundColor: req.BackgroundColor,
		Campaign:        toCampaignSettings(&req.Campaign),
	}
	// 请求体与活动规则的错误一并返回
	if fields := utils.FieldErrors(&req); len(fields) > 0 {
		fields = utils.MergeFieldErrors(fields, c.app.CheckCampaign(in))
		return c.err.Validation("参数校验失败", fields).WithTraceID(util.Context(ctx))
	}

	q, err := c.app.CreateCampaign(util.Context(ctx), ownerID, in)
	if err != nil {
		return err
	}
	return result.Created(ctx, toQRCodeDTO(c.app, q))
}

// UpdateCampaign 更新活动码，非活动码返回状态错误
func (c *QRCodeAPIController) UpdateCampaign(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateQRCodeReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	q, err := c.app.UpdateCampaign(util.Context(ctx), ownerID, ctx.Params("id"), toUpdateInput(&req))
	if err != nil {
		return err
	}
	return result.OK(ctx, toQRCodeDTO(c.app, q))
}

func queryInt(ctx *fiber.Ctx, key string, def int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
