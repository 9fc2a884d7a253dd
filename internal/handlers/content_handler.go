package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"storefront/internal/about"
	"storefront/internal/blog"
	"storefront/internal/contact"
	"storefront/internal/models"
)

// Section is one independently fetched part of a page.
type Section[T any] struct {
	Data  T          `json:"data"`
	Error *PageError `json:"error,omitempty"`
}

type AboutPage struct {
	Business     Section[*models.BusinessDetails] `json:"business"`
	Team         Section[[]models.TeamMember]     `json:"team"`
	Testimonials Section[about.Testimonials]      `json:"testimonials"`
	Policies     []about.Policy                   `json:"policies"`
}

// GET /about
func (h *Handler) About(c *gin.Context) {
	ctx := requestContext(c)
	page := AboutPage{Policies: about.Policies()}

	var (
		details      *models.BusinessDetails
		members      []models.TeamMember
		testimonials []models.Testimonial

		detailsErr, teamErr, testimonialsErr error
	)

	// each section degrades on its own, so the goroutines never fail the group
	var g errgroup.Group
	g.Go(func() error {
		details, detailsErr = h.content.BusinessDetails(ctx)
		return nil
	})
	g.Go(func() error {
		members, teamErr = h.content.Teams(ctx)
		return nil
	})
	g.Go(func() error {
		testimonials, testimonialsErr = h.content.Testimonials(ctx)
		return nil
	})
	_ = g.Wait()

	if detailsErr != nil {
		_, page.Business.Error = h.pageError(c, detailsErr)
	} else {
		page.Business.Data = details
	}
	page.Team.Data = about.ActiveTeam(members)
	if teamErr != nil {
		_, page.Team.Error = h.pageError(c, teamErr)
	}
	page.Testimonials.Data = about.Approved(testimonials)
	if testimonialsErr != nil {
		_, page.Testimonials.Error = h.pageError(c, testimonialsErr)
	}

	c.JSON(http.StatusOK, page)
}

// GET /team
func (h *Handler) Team(c *gin.Context) {
	members, err := h.content.Teams(requestContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": about.ActiveTeam(members)})
}

// GET /testimonials
func (h *Handler) Testimonials(c *gin.Context) {
	list, err := h.content.Testimonials(requestContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, about.Approved(list))
}

// GET /blog?search=&category=&tag=&sort=
func (h *Handler) Blog(c *gin.Context) {
	var q blog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, PageError{Error: err.Error()})
		return
	}
	posts, err := h.content.PublishedBlogs(requestContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, blog.Build(posts, q))
}

// GET /contact
func (h *Handler) ContactPage(c *gin.Context) {
	details, err := h.content.BusinessDetails(requestContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contact.BuildPage(*details, h.mapsAPIKey))
}

// POST /contact
func (h *Handler) SubmitContact(c *gin.Context) {
	var form models.ContactMessage
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, contact.Outcome{
			Notification: contact.Notification{
				Type:    contact.NotificationError,
				Message: "Please fill in your name, a valid email, a subject and a message.",
			},
			Form: form,
		})
		return
	}

	out := contact.Submit(c.Request.Context(), h.content, form)
	if !out.Sent {
		c.JSON(http.StatusBadGateway, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
