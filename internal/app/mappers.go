package app

import "nofesh/internal/domain"

// ListingItem is the lightweight card used by list responses.
type ListingItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Region      string   `json:"region"`
	Amenities   []string `json:"amenities"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Image       string   `json:"image"`
	IsNew       bool     `json:"isNew"`
}

// ListingDetail extends the card with everything the detail page shows.
type ListingDetail struct {
	ListingItem
	Images      []string     `json:"images"`
	Description string       `json:"description"`
	MaxGuests   int          `json:"maxGuests"`
	MinNights   int          `json:"minNights"`
	Host        *HostView    `json:"host,omitempty"`
	Reviews     []ReviewView `json:"reviews,omitempty"`
}

type HostView struct {
	Name         string  `json:"name"`
	Avatar       string  `json:"avatar"`
	Rating       float64 `json:"rating"`
	ResponseTime string  `json:"responseTime"`
	IsVerified   bool    `json:"isVerified"`
}

type ReviewView struct {
	User    string  `json:"user"`
	Rating  float64 `json:"rating"`
	Date    string  `json:"date"`
	Comment string  `json:"comment"`
}

type TitleSuggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

func mapListItem(p domain.Property, lang string) ListingItem {
	image := p.Image
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	title, _ := p.Title.Resolve(lang)
	location, _ := p.Location.Resolve(lang)
	region, _ := p.Region.Resolve(lang)
	amenities, _ := p.Amenities.Resolve(lang)
	if amenities == nil {
		amenities = []string{}
	}
	return ListingItem{
		ID:          p.ID.Hex(),
		Title:       title,
		Location:    location,
		Region:      region,
		Amenities:   amenities,
		Price:       p.Price,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Image:       image,
		IsNew:       p.IsNew,
	}
}

func mapDetail(p domain.Property, lang string) ListingDetail {
	base := mapListItem(p, lang)

	images := p.Images
	if len(images) == 0 && base.Image != "" {
		images = []string{base.Image}
	}
	description, _ := p.Description.Resolve(lang)

	d := ListingDetail{
		ListingItem: base,
		Images:      images,
		Description: description,
		MaxGuests:   p.MaxGuests,
		MinNights:   p.MinNights,
	}
	if p.Host != nil {
		name, _ := p.Host.Name.Resolve(lang)
		responseTime, _ := p.Host.ResponseTime.Resolve(lang)
		d.Host = &HostView{
			Name:         name,
			Avatar:       p.Host.Avatar,
			Rating:       p.Host.Rating,
			ResponseTime: responseTime,
			IsVerified:   p.Host.IsVerified,
		}
	}
	for _, r := range p.Reviews {
		user, _ := r.User.Resolve(lang)
		comment, _ := r.Comment.Resolve(lang)
		d.Reviews = append(d.Reviews, ReviewView{
			User:    user,
			Rating:  r.Rating,
			Date:    r.Date,
			Comment: comment,
		})
	}
	return d
}

func mapTitleSuggestion(p domain.Property, lang string) TitleSuggestion {
	image := p.Image
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	title, _ := p.Title.Resolve(lang)
	return TitleSuggestion{ID: p.ID.Hex(), Title: title, Image: image}
}
