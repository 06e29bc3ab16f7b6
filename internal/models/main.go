package models

// ModelRegistry lists every model passed to AutoMigrate. New models must be
// registered here or --auto-migrate will not pick them up.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
	&EmailLog{},
}
