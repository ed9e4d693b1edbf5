package settings

const (
	KeyCronSchedule        = "backup_cron_schedule"
	KeySelectedCollections = "backup_selected_collections"
	KeyOAuthClientID       = "backup_google_oauth_client_id"
	KeyOAuthClientSecret   = "backup_google_oauth_client_secret"
	KeyOAuthRefreshToken   = "backup_google_oauth_refresh_token"
	KeyDriveFolderID       = "backup_google_drive_folder_id"
)

const (
	CategoryGeneral  = "general"
	CategoryPricing  = "pricing"
	CategoryFeatures = "features"
	CategoryLimits   = "limits"
	CategoryBackup   = "backup"
)

var categories = map[string]bool{
	CategoryGeneral:  true,
	CategoryPricing:  true,
	CategoryFeatures: true,
	CategoryLimits:   true,
	CategoryBackup:   true,
}

func IsCategory(c string) bool {
	return categories[c]
}
