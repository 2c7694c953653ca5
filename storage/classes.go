// storage/classes.go
package storage

import (
	"context"

	"padel-club-api/models"

	"gorm.io/gorm"
)

func (s *Store) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	return first[models.Class](ctx, s.db, id, "Students")
}

// ListClasses returns classes whose required level does not exceed maxLevel.
func (s *Store) ListClasses(ctx context.Context, maxLevel float64, limit int) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.WithContext(ctx).
		Where("level_required <= ?", maxLevel).
		Order("schedule").
		Limit(limit).
		Find(&classes).Error
	return classes, translate(err)
}

func (s *Store) CreateClass(ctx context.Context, c *models.Class) error {
	return translate(s.db.WithContext(ctx).Omit("Students").Create(c).Error)
}

func (s *Store) SaveClass(ctx context.Context, c *models.Class) error {
	return translate(s.db.WithContext(ctx).Omit("Students").Save(c).Error)
}

func (s *Store) DeleteClass(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Class
		if err := tx.First(&c, id).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Select("Students").Delete(&c).Error)
	})
}

func (s *Store) EnrollStudent(ctx context.Context, classID, userID uint, creditDelta int) (int, error) {
	var balance int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link := models.UserClassLink{UserID: userID, ClassID: classID}
		if err := tx.Create(&link).Error; err != nil {
			return translate(err)
		}
		var err error
		balance, err = adjustCredits(tx, userID, creditDelta)
		return err
	})
	return balance, err
}

// DropStudent returns ErrNotFound when the user was not enrolled.
func (s *Store) DropStudent(ctx context.Context, classID, userID uint, creditDelta int) (int, error) {
	var balance int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND class_id = ?", userID, classID).Delete(&models.UserClassLink{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var err error
		balance, err = adjustCredits(tx, userID, creditDelta)
		return err
	})
	return balance, err
}
