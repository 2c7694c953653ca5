// storage/users.go
package storage

import (
	"context"

	"padel-club-api/models"

	"gorm.io/gorm"
)

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](ctx, s.db, id)
}

func (s *Store) GetUserWithRelations(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](ctx, s.db, id, "Classes", "Events", "Teams")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Limit(limit).Find(&users).Error
	return users, translate(err)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Omit("Classes", "Events", "Teams").Create(u).Error)
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Omit("Classes", "Events", "Teams").Save(u).Error)
}

// DeleteUser removes the user together with every link row that references it.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, id).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Select("Classes", "Events", "Teams").Delete(&u).Error)
	})
}

func (s *Store) AddCredits(ctx context.Context, userID uint, amount int) (int, error) {
	var balance int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = adjustCredits(tx, userID, amount)
		return err
	})
	return balance, err
}
