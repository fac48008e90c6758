package routes

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"github.com/travigo/driverportal/pkg/portal"
)

const (
	notFoundMessage = "Employee ID not found. Contact Dispatch."
	syncingMessage  = "Syncing error: the portal could not load its data. Try again shortly."
)

//go:embed templates/*.html
var templateFS embed.FS

// Links are built and escaped by the links package, so they are trusted as URLs. This is what
// lets tel: and truckmap: hrefs through the template's URL filter.
var pageTemplate = template.Must(template.New("portal.html").Funcs(template.FuncMap{
	"url": func(value string) template.URL {
		return template.URL(value)
	},
}).ParseFS(templateFS, "templates/portal.html"))

type Lookuper interface {
	Lookup(ctx context.Context, key string) (*portal.Result, error)
}

type FeedRepository interface {
	Refresh(ctx context.Context) error
	Status() []feeds.Status
}

// Portal serves the driver page and its JSON equivalents.
type Portal struct {
	Service     Lookuper
	Repository  FeedRepository
	PageRefresh time.Duration
}

type pageView struct {
	Title          string
	LookupKey      string
	RefreshSeconds int
	Error          string

	NotFound          bool
	Driver            *portal.DriverView
	Route             portal.Route
	Dispatch          *portal.DispatchNote
	Stops             []portal.StopView
	QuickLinks        []links.QuickLink
	IssueForm         string
	RouteConfirmation string
	Dashboard         *portal.Dashboard
	Safety            *portal.SafetyMessage
	FetchedAt         time.Time
}

func PortalRouter(router fiber.Router, p *Portal) {
	router.Get("/", p.page)
	router.Post("/refresh", p.refresh)
}

func (p *Portal) page(c *fiber.Ctx) error {
	view := pageView{
		Title:          "CPC Driver Portal",
		RefreshSeconds: int(p.PageRefresh.Seconds()),
	}
	if view.RefreshSeconds <= 0 {
		view.RefreshSeconds = int(feeds.DefaultPageRefresh.Seconds())
	}

	status := fiber.StatusOK

	if key := strings.TrimSpace(c.Query("id")); key != "" {
		view.LookupKey = key

		result, err := p.Service.Lookup(c.UserContext(), key)
		switch {
		case errors.Is(err, portal.ErrDriverNotFound):
			view.NotFound = true
			view.Error = notFoundMessage
		case err != nil:
			view.Error = describeLookupError(err)
			status = fiber.StatusServiceUnavailable
		default:
			if err := copier.Copy(&view, result); err != nil {
				return err
			}
		}

		if result != nil {
			view.Safety = result.Safety
		}
	}

	var body bytes.Buffer
	if err := pageTemplate.Execute(&body, view); err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")

	return c.Status(status).Send(body.Bytes())
}

func (p *Portal) refresh(c *fiber.Ctx) error {
	if err := p.Repository.Refresh(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("Failed to invalidate feed cache")
	}

	location := "/"
	if key := strings.TrimSpace(c.FormValue("id")); key != "" {
		location = "/?id=" + url.QueryEscape(key)
	}

	return c.Redirect(location, fiber.StatusSeeOther)
}

func describeLookupError(err error) string {
	var feedErr *feeds.FeedError
	if errors.As(err, &feedErr) {
		log.Error().Err(feedErr.Err).Str("feed", feedErr.Feed).Msg("Feed failed, aborting render")
		return fmt.Sprintf("Syncing error: the %s feed could not be loaded. Try again shortly.", feedErr.Feed)
	}

	log.Error().Err(err).Msg("Lookup failed")

	return syncingMessage
}
