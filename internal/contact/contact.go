// Package contact handles the contact page: submitting the form to the
// backend and presenting the business contact details.
package contact

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/models"
)

const (
	NotificationSuccess = "success"
	NotificationError   = "error"

	defaultSuccess = "Thank you! Your message has been sent."
	defaultFailure = "Failed to send message. Please try again."
)

// Notification is the toast shown after a submission.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Outcome is the result of a submission. Form is what the form should show
// next: empty after success, the submitted values after a failure.
type Outcome struct {
	Sent         bool                  `json:"sent"`
	Notification Notification          `json:"notification"`
	Form         models.ContactMessage `json:"form"`
}

// Submitter posts contact messages to the backend.
type Submitter interface {
	SubmitContact(ctx context.Context, msg models.ContactMessage) (*models.ContactResponse, error)
}

// Submit sends form and reports the outcome. Errors never escape: they
// become an error notification with the form preserved.
func Submit(ctx context.Context, s Submitter, form models.ContactMessage) Outcome {
	form = trimForm(form)

	resp, err := s.SubmitContact(ctx, form)
	if err != nil {
		return failed(form, failureMessage(err))
	}
	if resp.Success != nil && !*resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = defaultFailure
		}
		return failed(form, msg)
	}

	msg := resp.Message
	if msg == "" {
		msg = defaultSuccess
	}
	return Outcome{
		Sent:         true,
		Notification: Notification{Type: NotificationSuccess, Message: msg},
		Form:         models.ContactMessage{},
	}
}

func failed(form models.ContactMessage, msg string) Outcome {
	return Outcome{
		Notification: Notification{Type: NotificationError, Message: msg},
		Form:         form,
	}
}

func failureMessage(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, backend.ErrNotConfigured) {
		return "Contact form is unavailable right now."
	}
	return defaultFailure
}

func trimForm(f models.ContactMessage) models.ContactMessage {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
	return f
}

// MapEmbedURL builds the Google Maps iframe URL for the business location.
// A place id is used when an API key is available; otherwise the display
// address (or company name) becomes a free-text query.
func MapEmbedURL(details models.BusinessDetails, apiKey string) string {
	placeID := strings.TrimSpace(details.Location.GooglePlaceID)
	if placeID != "" && apiKey != "" {
		v := url.Values{}
		v.Set("key", apiKey)
		v.Set("q", "place_id:"+placeID)
		return "https://www.google.com/maps/embed/v1/place?" + v.Encode()
	}

	query := strings.TrimSpace(details.Location.DisplayAddress)
	if query == "" {
		query = strings.TrimSpace(details.Company.Name)
	}
	if query == "" {
		return ""
	}
	return "https://maps.google.com/maps?q=" + url.QueryEscape(query) + "&output=embed"
}

// Page is the contact page view model.
type Page struct {
	Company     models.Company         `json:"company"`
	Support     models.CustomerSupport `json:"support"`
	Location    models.Location        `json:"location"`
	SocialMedia models.SocialMedia     `json:"socialMedia"`
	Stores      []models.Store         `json:"stores"`
	MapEmbedURL string                 `json:"mapEmbedUrl,omitempty"`
}

// BuildPage shapes business details for the contact page. Only active stores
// are listed, and only when multi-store is enabled.
func BuildPage(details models.BusinessDetails, apiKey string) Page {
	stores := make([]models.Store, 0)
	if details.MultiStore.Enabled {
		for _, s := range details.MultiStore.Stores {
			if s.IsActive {
				stores = append(stores, s)
			}
		}
	}
	return Page{
		Company:     details.Company,
		Support:     details.Contact.CustomerSupport,
		Location:    details.Location,
		SocialMedia: details.SocialMedia,
		Stores:      stores,
		MapEmbedURL: MapEmbedURL(details, apiKey),
	}
}
