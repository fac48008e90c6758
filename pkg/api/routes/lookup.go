package routes

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/portal"
)

func APIRouter(router fiber.Router, p *Portal) {
	router.Get("/lookup", p.lookup)
	router.Get("/feeds", p.feedStatus)
}

func (p *Portal) lookup(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Query("id"))
	if key == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "An employee ID must be provided",
		})
	}

	result, err := p.Service.Lookup(c.UserContext(), key)
	if errors.Is(err, portal.ErrDriverNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": notFoundMessage,
		})
	} else if err != nil {
		response := fiber.Map{
			"error": describeLookupError(err),
		}

		var feedErr *feeds.FeedError
		if errors.As(err, &feedErr) {
			response["feed"] = feedErr.Feed
		}

		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(response)
	}

	groups := []string{"basic"}
	if c.QueryBool("credentials") {
		groups = append(groups, "credentials")
	}

	resultReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, result)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce lookup result",
		})
	}

	return c.JSON(resultReduced)
}

func (p *Portal) feedStatus(c *fiber.Ctx) error {
	return c.JSON(p.Repository.Status())
}
