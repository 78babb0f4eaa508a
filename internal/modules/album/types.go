package album

import "errors"

var (
	errAlbumNotFound = errors.New("album not found")
	errPhotoNotFound = errors.New("photo not found")
)

type CreateAlbumDTO struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	CoverImageURL string `json:"cover_image_url"`
	CoverImageID  string `json:"cover_image_id"`
	ThumbnailURL  string `json:"thumbnail_url"`
	ThumbnailID   string `json:"thumbnail_id"`
	OrderIndex    *int   `json:"order_index"`
	IsPublished   *bool  `json:"is_published"`
}

type UpdateAlbumDTO struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"cover_image_url"`
	CoverImageID  *string `json:"cover_image_id"`
	ThumbnailURL  *string `json:"thumbnail_url"`
	ThumbnailID   *string `json:"thumbnail_id"`
	OrderIndex    *int    `json:"order_index"`
	IsPublished   *bool   `json:"is_published"`
}

type CreatePhotoDTO struct {
	CDNPublicID string                 `json:"cdn_public_id" binding:"required"`
	CDNURL      string                 `json:"cdn_url"       binding:"required"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	AltText     string                 `json:"alt_text"`
	OrderIndex  *int                   `json:"order_index"`
	IsPublished *bool                  `json:"is_published"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type UpdatePhotoDTO struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	AltText     *string                `json:"alt_text"`
	OrderIndex  *int                   `json:"order_index"`
	IsPublished *bool                  `json:"is_published"`
	Metadata    map[string]interface{} `json:"metadata"`
}
