package service_test

import "gorm.io/gorm"

func roomModel(id uint) gorm.Model {
	return gorm.Model{ID: id}
}
