package result

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func OK(c *fiber.Ctx, v interface{}) error {
	return c.Status(200).JSON(fiber.Map{"status": 200, "data": v})
}

func Created(c *fiber.Ctx, v interface{}) error {
	return c.Status(201).JSON(fiber.Map{"status": 201, "data": v})
}

// Page 列表分页响应
func Page(c *fiber.Ctx, list interface{}, total int64) error {
	c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	return OK(c, fiber.Map{"total": total, "content": list})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(204)
}

func Once(c *fiber.Ctx, v interface{}, err error) error {
	if err != nil {
		return err
	}
	return OK(c, v)
}
