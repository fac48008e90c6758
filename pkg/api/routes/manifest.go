package routes

import "github.com/gofiber/fiber/v2"

// WebManifest lets drivers pin the portal to a phone home screen.
func WebManifest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":             "CPC Driver Portal",
		"short_name":       "Driver Portal",
		"start_url":        "/",
		"display":          "standalone",
		"background_color": "#ffffff",
		"theme_color":      "#004a99",
	}, "application/manifest+json")
}
