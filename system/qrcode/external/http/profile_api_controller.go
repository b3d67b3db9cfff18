package http

import (
	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"
	"qrhub/pkg/core/mvc"
	"qrhub/pkg/core/result"
	"qrhub/pkg/core/security"
	"qrhub/pkg/core/util"
	"qrhub/system/qrcode/api/dto"
	internalapp "qrhub/system/qrcode/internal/app"
	"qrhub/utils"

	"github.com/gofiber/fiber/v2"
)

// ProfileAPIController 名片与分组管理
type ProfileAPIController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewProfileAPIController(app *internalapp.App) *ProfileAPIController {
	return &ProfileAPIController{
		app: app,
		err: errorc.NewErrorBuilder("ProfileAPIController"),
		log: logger.GetLogger().WithEntryName("ProfileAPIController"),
	}
}

// RegisterRoutes 注册路由
func (c *ProfileAPIController) RegisterRoutes(api fiber.Router) {
	profiles := api.Group("/profiles")
	profiles.Post("/", c.Create)
	profiles.Get("/", c.List)
	profiles.Get("/:id", c.Get)
	profiles.Patch("/:id", c.Update)
	profiles.Delete("/:id", c.Delete)

	groups := api.Group("/profile-groups")
	groups.Post("/", c.CreateGroup)
	groups.Get("/", c.ListGroups)
	groups.Delete("/:id", c.DeleteGroup)
}

func (c *ProfileAPIController) Create(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.ProfileReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	p, err := c.app.CreateProfile(util.Context(ctx), ownerID, toProfileInput(&req))
	if err != nil {
		return err
	}
	return result.Created(ctx, p)
}

// List 可按分组过滤
func (c *ProfileAPIController) List(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListProfileReq
	if err := ctx.QueryParser(&req); err != nil {
		return c.err.New("解析查询参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx))
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	list, total, err := c.app.ListProfiles(util.Context(ctx), ownerID, req.GroupID, &mvc.Page{PageNum: req.PageNum, Size: req.Size})
	if err != nil {
		return err
	}
	return result.Page(ctx, list, total)
}

func (c *ProfileAPIController) Get(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	p, err := c.app.GetProfile(util.Context(ctx), ownerID, ctx.Params("id"))
	return result.Once(ctx, p, err)
}

func (c *ProfileAPIController) Update(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.ProfileReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	p, err := c.app.UpdateProfile(util.Context(ctx), ownerID, ctx.Params("id"), toProfileInput(&req))
	return result.Once(ctx, p, err)
}

func (c *ProfileAPIController) Delete(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	if err := c.app.DeleteProfile(util.Context(ctx), ownerID, ctx.Params("id")); err != nil {
		return err
	}
	return result.NoContent(ctx)
}

func (c *ProfileAPIController) CreateGroup(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.GroupReq
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	g, err := c.app.CreateGroup(util.Context(ctx), ownerID, req.Name, req.Color)
	if err != nil {
		return err
	}
	return result.Created(ctx, g)
}

func (c *ProfileAPIController) ListGroups(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	groups, err := c.app.ListGroups(util.Context(ctx), ownerID)
	if err != nil {
		return err
	}
	return result.Page(ctx, groups, int64(len(groups)))
}

// DeleteGroup 删除分组，组内名片移出分组
func (c *ProfileAPIController) DeleteGroup(ctx *fiber.Ctx) error {
	ownerID, err := security.GetOwnerID(ctx)
	if err != nil {
		return err
	}

	if err := c.app.DeleteGroup(util.Context(ctx), ownerID, ctx.Params("id")); err != nil {
		return err
	}
	return result.NoContent(ctx)
}
