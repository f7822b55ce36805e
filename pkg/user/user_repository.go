package user

import (
	"Mataam-Backoffice/entities"
	"context"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.StaffUser) error
		GetUserByEmail(ctx context.Context, email string) (*entities.StaffUser, error)
		GetUserByID(ctx context.Context, id string) (*entities.StaffUser, error)
		UpdateUser(ctx context.Context, user *entities.StaffUser) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.StaffUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.StaffUser, error) {
	var user entities.StaffUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.StaffUser, error) {
	var user entities.StaffUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.StaffUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}
