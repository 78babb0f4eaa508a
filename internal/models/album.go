package models

// AlbumModel groups photos on the public gallery. Cover and thumbnail
// reference assets on the image CDN; the service treats them as opaque.
type AlbumModel struct {
	Base
	Name          string `json:"name"            gorm:"not null"`
	Description   string `json:"description"     gorm:"type:text"`
	CoverImageURL string `json:"cover_image_url"`
	CoverImageID  string `json:"cover_image_id"`
	ThumbnailURL  string `json:"thumbnail_url"`
	ThumbnailID   string `json:"thumbnail_id"`
	OrderIndex    int    `json:"order_index"     gorm:"default:0;index"`
	IsPublished   bool   `json:"is_published"    gorm:"default:true;index"`

	Photos []PhotoModel `json:"photos,omitempty" gorm:"foreignKey:AlbumID"`
}

func (AlbumModel) TableName() string { return "albums" }

// PhotoModel is a single CDN-hosted photo inside an album.
type PhotoModel struct {
	Base
	AlbumID     uint                   `json:"album_id"      gorm:"index;not null"`
	CDNPublicID string                 `json:"cdn_public_id" gorm:"not null"`
	CDNURL      string                 `json:"cdn_url"       gorm:"not null"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"   gorm:"type:text"`
	AltText     string                 `json:"alt_text"`
	OrderIndex  int                    `json:"order_index"   gorm:"default:0;index"`
	IsPublished bool                   `json:"is_published"  gorm:"default:true;index"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" gorm:"serializer:json"`
}

func (PhotoModel) TableName() string { return "photos" }
