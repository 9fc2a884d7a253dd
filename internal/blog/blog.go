// Package blog filters and sorts published posts for the blog listing.
package blog

import (
	"sort"
	"strings"

	"storefront/internal/models"
)

// Sort orders understood by Filter.
const (
	SortLatest   = "latest"
	SortOldest   = "oldest"
	SortPopular  = "popular"
	SortTrending = "trending"
	SortFeatured = "featured"
)

const all = "all"

// Query holds the listing controls. Empty fields disable their filter.
type Query struct {
	Search   string `form:"search" json:"search"`
	Category string `form:"category" json:"category"`
	Tag      string `form:"tag" json:"tag"`
	Sort     string `form:"sort" json:"sort"`
}

// Listing is the blog page view model.
type Listing struct {
	Posts      []models.BlogPost `json:"posts"`
	Featured   []models.BlogPost `json:"featured"`
	Categories []string          `json:"categories"`
	Tags       []string          `json:"tags"`
	Total      int               `json:"total"`
	Query      Query             `json:"query"`
}

// Filter returns the posts matching q in q.Sort order. It never mutates
// posts.
func Filter(posts []models.BlogPost, q Query) []models.BlogPost {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := normalize(q.Category)
	tag := normalize(q.Tag)

	out := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if category != "" && !strings.EqualFold(strings.TrimSpace(p.Category), category) {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		out = append(out, p)
	}
	Sort(out, q.Sort)
	return out
}

// Sort orders posts in place. Unknown orders fall back to latest.
func Sort(posts []models.BlogPost, order string) {
	latest := func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) }

	var less func(i, j int) bool
	switch strings.ToLower(order) {
	case SortOldest:
		less = func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) }
	case SortPopular:
		less = func(i, j int) bool {
			if posts[i].Views != posts[j].Views {
				return posts[i].Views > posts[j].Views
			}
			return latest(i, j)
		}
	case SortTrending:
		less = func(i, j int) bool {
			if posts[i].Likes != posts[j].Likes {
				return posts[i].Likes > posts[j].Likes
			}
			if posts[i].Views != posts[j].Views {
				return posts[i].Views > posts[j].Views
			}
			return latest(i, j)
		}
	case SortFeatured:
		less = func(i, j int) bool {
			if posts[i].Featured != posts[j].Featured {
				return posts[i].Featured
			}
			return latest(i, j)
		}
	default:
		less = latest
	}
	sort.SliceStable(posts, less)
}

// Build derives the full listing: the filtered posts plus the facets
// computed over every post.
func Build(posts []models.BlogPost, q Query) Listing {
	if q.Sort == "" {
		q.Sort = SortLatest
	}
	filtered := Filter(posts, q)

	featured := make([]models.BlogPost, 0)
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	Sort(featured, SortLatest)

	return Listing{
		Posts:      filtered,
		Featured:   featured,
		Categories: Categories(posts),
		Tags:       Tags(posts),
		Total:      len(filtered),
		Query:      q,
	}
}

// Categories lists distinct categories, sorted.
func Categories(posts []models.BlogPost) []string {
	seen := make(map[string]string)
	for _, p := range posts {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; !ok {
			seen[key] = c
		}
	}
	return sortedValues(seen)
}

// Tags lists distinct tags, sorted.
func Tags(posts []models.BlogPost) []string {
	seen := make(map[string]string)
	for _, p := range posts {
		for _, t := range p.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			key := strings.ToLower(t)
			if _, ok := seen[key]; !ok {
				seen[key] = t
			}
		}
	}
	return sortedValues(seen)
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, all) {
		return ""
	}
	return v
}

func matchesSearch(p models.BlogPost, search string) bool {
	return strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Excerpt), search) ||
		strings.Contains(strings.ToLower(p.Content), search)
}

func hasTag(p models.BlogPost, tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
