package db

import (
	"errors"

	"gorm.io/gorm"
)

// Registry looks up and creates users by name.
type Registry struct {
	g *gorm.DB
}

func NewRegistry(g *gorm.DB) *Registry {
	return &Registry{g: g}
}

func (r *Registry) GetOrCreate(username string) (*User, error) {
	var user User
	err := r.g.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = User{Username: username}
		if err := r.g.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	return nil, err
}

func (r *Registry) Usernames() ([]string, error) {
	var names []string
	if err := r.g.Model(&User{}).Order("id asc").Pluck("username", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
