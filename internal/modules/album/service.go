package album

import (
	"errors"

	"github.com/chitragar/portfolio-core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListPublic returns published albums without their photos, ordered for
// the gallery page.
func (s *Service) ListPublic() ([]models.AlbumModel, error) {
	var albums []models.AlbumModel
	err := s.db.Where("is_published = ?", true).
		Order("order_index ASC, created_at DESC").
		Find(&albums).Error
	return albums, err
}

// GetPublic returns one published album with its published photos.
func (s *Service) GetPublic(id uint) (*models.AlbumModel, error) {
	var a models.AlbumModel
	err := s.db.Preload("Photos", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_published = ?", true).Order("order_index ASC, created_at ASC")
	}).First(&a, "id = ? AND is_published = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAlbumNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAdmin returns every album, drafts included, with all photos.
func (s *Service) ListAdmin() ([]models.AlbumModel, error) {
	var albums []models.AlbumModel
	err := s.db.Preload("Photos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC, created_at ASC")
	}).Order("order_index ASC, created_at DESC").
		Find(&albums).Error
	return albums, err
}

func (s *Service) Create(dto *CreateAlbumDTO) (*models.AlbumModel, error) {
	a := models.AlbumModel{
		Name:          dto.Name,
		Description:   dto.Description,
		CoverImageURL: dto.CoverImageURL,
		CoverImageID:  dto.CoverImageID,
		ThumbnailURL:  dto.ThumbnailURL,
		ThumbnailID:   dto.ThumbnailID,
		IsPublished:   true,
	}
	if dto.OrderIndex != nil {
		a.OrderIndex = *dto.OrderIndex
	}
	if dto.IsPublished != nil {
		a.IsPublished = *dto.IsPublished
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) Update(id uint, dto *UpdateAlbumDTO) (*models.AlbumModel, error) {
	var a models.AlbumModel
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAlbumNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.CoverImageURL != nil {
		updates["cover_image_url"] = *dto.CoverImageURL
	}
	if dto.CoverImageID != nil {
		updates["cover_image_id"] = *dto.CoverImageID
	}
	if dto.ThumbnailURL != nil {
		updates["thumbnail_url"] = *dto.ThumbnailURL
	}
	if dto.ThumbnailID != nil {
		updates["thumbnail_id"] = *dto.ThumbnailID
	}
	if dto.OrderIndex != nil {
		updates["order_index"] = *dto.OrderIndex
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if len(updates) > 0 {
		if err := s.db.Model(&a).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes an album and every photo in it.
func (s *Service) Delete(id uint) error {
	var a models.AlbumModel
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errAlbumNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&models.PhotoModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
}

// AddPhoto attaches a photo to an album. The first photo becomes the
// album cover when none is set.
func (s *Service) AddPhoto(albumID uint, dto *CreatePhotoDTO) (*models.PhotoModel, error) {
	var a models.AlbumModel
	if err := s.db.First(&a, albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAlbumNotFound
		}
		return nil, err
	}

	p := models.PhotoModel{
		AlbumID:     albumID,
		CDNPublicID: dto.CDNPublicID,
		CDNURL:      dto.CDNURL,
		Title:       dto.Title,
		Description: dto.Description,
		AltText:     dto.AltText,
		IsPublished: true,
		Metadata:    dto.Metadata,
	}
	if dto.OrderIndex != nil {
		p.OrderIndex = *dto.OrderIndex
	}
	if dto.IsPublished != nil {
		p.IsPublished = *dto.IsPublished
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if a.CoverImageURL == "" {
			return tx.Model(&a).Updates(map[string]interface{}{
				"cover_image_url": p.CDNURL,
				"cover_image_id":  p.CDNPublicID,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) UpdatePhoto(id uint, dto *UpdatePhotoDTO) (*models.PhotoModel, error) {
	var p models.PhotoModel
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPhotoNotFound
		}
		return nil, err
	}

	if dto.Title != nil {
		p.Title = *dto.Title
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.AltText != nil {
		p.AltText = *dto.AltText
	}
	if dto.OrderIndex != nil {
		p.OrderIndex = *dto.OrderIndex
	}
	if dto.IsPublished != nil {
		p.IsPublished = *dto.IsPublished
	}
	if dto.Metadata != nil {
		p.Metadata = dto.Metadata
	}

	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) DeletePhoto(id uint) error {
	res := s.db.Delete(&models.PhotoModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errPhotoNotFound
	}
	return nil
}

// PromoteCover makes the given photo its album's cover image.
func (s *Service) PromoteCover(photoID uint) (*models.AlbumModel, error) {
	var p models.PhotoModel
	if err := s.db.First(&p, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPhotoNotFound
		}
		return nil, err
	}

	var a models.AlbumModel
	if err := s.db.First(&a, p.AlbumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAlbumNotFound
		}
		return nil, err
	}

	err := s.db.Model(&a).Updates(map[string]interface{}{
		"cover_image_url": p.CDNURL,
		"cover_image_id":  p.CDNPublicID,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := s.db.First(&a, a.ID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
