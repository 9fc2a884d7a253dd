// Package about shapes the marketing content of the About page: team,
// testimonials and store policies.
package about

import (
	"math"
	"sort"
	"strings"

	"storefront/internal/models"
)

// ActiveTeam keeps active members ordered by their order field. Members with
// the same order keep the backend's order.
func ActiveTeam(members []models.TeamMember) []models.TeamMember {
	out := make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		if m.IsActive {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Testimonials is the testimonial carousel view model.
type Testimonials struct {
	Items         []models.Testimonial `json:"items"`
	Empty         bool                 `json:"empty"`
	AverageRating float64              `json:"averageRating"`
	Count         int                  `json:"count"`
}

// Approved keeps approved testimonials. No approved entries is the empty
// state, not an error.
func Approved(list []models.Testimonial) Testimonials {
	items := make([]models.Testimonial, 0, len(list))
	sum := 0
	for _, t := range list {
		if strings.EqualFold(strings.TrimSpace(t.Status), models.TestimonialStatusApproved) {
			items = append(items, t)
			sum += clampRating(t.Rating)
		}
	}

	out := Testimonials{Items: items, Empty: len(items) == 0, Count: len(items)}
	if len(items) > 0 {
		out.AverageRating = math.Round(float64(sum)/float64(len(items))*10) / 10
	}
	return out
}

func clampRating(r int) int {
	return max(0, min(r, 5))
}

// Policy is one entry of the store policy strip.
type Policy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Policies returns the fixed store policies.
func Policies() []Policy {
	return []Policy{
		{Title: "Easy Exchange Policy", Description: "We offer a hassle-free exchange policy", Icon: "exchange"},
		{Title: "7 Days Return Policy", Description: "We provide a 7 day free return policy", Icon: "quality"},
		{Title: "Best Customer Support", Description: "We provide 24/7 customer support", Icon: "support"},
	}
}
