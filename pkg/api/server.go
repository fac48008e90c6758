package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/driverportal/pkg/api/routes"
)

func NewApp(portalRoutes *routes.Portal) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)
	webApp.Get("manifest.webmanifest", routes.WebManifest)

	routes.PortalRouter(webApp, portalRoutes)
	routes.APIRouter(webApp.Group("/api"), portalRoutes)

	return webApp
}

func SetupServer(listen string, portalRoutes *routes.Portal) error {
	return NewApp(portalRoutes).Listen(listen)
}
