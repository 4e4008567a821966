package http

import (
	"embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var staticEmbed embed.FS

// IndexPage serves the single-page UI.
func IndexPage(c *fiber.Ctx) error {
	page, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(page)
}
