package database

import "codelearn/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.FeatureUsage{},
		&models.SavedProject{},
		&models.UserFeedback{},
		&models.EarlyAccessSignup{},
	}
}
