package repository

import (
	authdomain "ghostinbox-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user lookups
type UserRepository interface {
	FindByID(id string) (*authdomain.User, error)
	// FindByEmail resolves a provider notification identity (emailAddress)
	// to an internal user. Returns (nil, nil) when no user matches.
	FindByEmail(email string) (*authdomain.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
