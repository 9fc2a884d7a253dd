package models

import "time"

type BlogPost struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Author    string    `json:"author,omitempty"`
	ReadTime  int       `json:"readTime,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	Featured  bool      `json:"featured"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Status    string    `json:"status,omitempty"`
}

type TeamMember struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Image       string `json:"image,omitempty"`
	Expertise   string `json:"expertise,omitempty"`
	Quote       string `json:"quote,omitempty"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
}

// TestimonialStatusApproved marks a testimonial cleared for display.
const TestimonialStatusApproved = "approved"

type Testimonial struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	Platform    string    `json:"platform,omitempty"`
	ProductName string    `json:"productName,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Company struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	FoundedYear int    `json:"foundedYear,omitempty"`
}

type CustomerSupport struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Hours string `json:"hours,omitempty"`
}

type ContactInfo struct {
	CustomerSupport CustomerSupport `json:"customerSupport"`
}

type Location struct {
	DisplayAddress string `json:"displayAddress,omitempty"`
	GoogleMapsLink string `json:"googleMapsLink,omitempty"`
	GooglePlaceID  string `json:"googlePlaceId,omitempty"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
}

type Store struct {
	Name     string `json:"storeName"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Timings  string `json:"timings,omitempty"`
	IsActive bool   `json:"isActive"`
}

type MultiStore struct {
	Enabled bool    `json:"enabled"`
	Stores  []Store `json:"stores,omitempty"`
}

// BusinessDetails is the company/contact record shown on About and Contact.
type BusinessDetails struct {
	Company     Company     `json:"company"`
	Contact     ContactInfo `json:"contact"`
	Location    Location    `json:"location"`
	SocialMedia SocialMedia `json:"socialMedia"`
	MultiStore  MultiStore  `json:"multiStore"`
}
