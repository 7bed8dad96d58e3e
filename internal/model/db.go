package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entity{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Property{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Link{}); err != nil {
		return err
	}

	return nil
}
