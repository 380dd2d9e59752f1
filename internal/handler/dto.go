package handler

import (
	"time"

	"github.com/artistsagainsttaupe/api/internal/domain"
)

// PostDTO is the JSON representation of a blog post. Field names match
// the columns the SPA has always consumed.
type PostDTO struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image"`
	Published bool     `json:"published"`
	Date      string   `json:"date"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toPostDTO(p *domain.BlogPost) PostDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostDTO{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Author:    p.Author,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		Tags:      tags,
		Image:     p.Image,
		Published: p.Published,
		Date:      p.Date,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPostDTOs(posts []domain.BlogPost) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}

// GalleryDTO is the JSON representation of a gallery. Images is empty
// in list responses and populated on single-gallery fetches.
type GalleryDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	Location    string            `json:"location"`
	ImageCount  int               `json:"imageCount"`
	Images      []GalleryImageDTO `json:"images"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// GalleryImageDTO is the shape the SPA renders: the original delivery
// URL plus sized variants.
type GalleryImageDTO struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Original string   `json:"original"`
	Sizes    SizesDTO `json:"sizes"`
	Format   string   `json:"format"`
}

type SizesDTO struct {
	Thumb  string `json:"thumb"`
	Medium string `json:"medium"`
	Full   string `json:"full"`
}

func toGalleryDTO(g *domain.Gallery, images []GalleryImageDTO) GalleryDTO {
	if images == nil {
		images = []GalleryImageDTO{}
	}
	return GalleryDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Date:        g.Date,
		Location:    g.Location,
		ImageCount:  g.ImageCount,
		Images:      images,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   g.UpdatedAt.Format(time.RFC3339),
	}
}

func toGalleryImageDTO(img *domain.GalleryImage, store domain.ImageStore) GalleryImageDTO {
	return GalleryImageDTO{
		ID:       img.ID,
		Title:    img.Title,
		Original: img.ImageURL,
		Sizes: SizesDTO{
			Thumb:  store.DeliveryURL(img.StoreImageID, "w=400,h=300,fit=cover"),
			Medium: store.DeliveryURL(img.StoreImageID, "w=800,h=600,fit=cover"),
			Full:   img.ImageURL,
		},
		Format: img.Format,
	}
}

func toGalleryImageDTOs(images []domain.GalleryImage, store domain.ImageStore) []GalleryImageDTO {
	dtos := make([]GalleryImageDTO, len(images))
	for i := range images {
		dtos[i] = toGalleryImageDTO(&images[i], store)
	}
	return dtos
}
