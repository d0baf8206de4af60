package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrEntryNotFound      = fmt.Errorf("entry not found")

	// Pipeline errors
	ErrFetchFailure          = fmt.Errorf("could not find artist or lyrics")
	ErrClassificationFailure = fmt.Errorf("mood classification failed")
	ErrStorageFailure        = fmt.Errorf("failed to store song")

	// Database errors
	ErrNoMigrations = fmt.Errorf("no migrations to roll back")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
