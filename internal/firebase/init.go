package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase initializes and returns a Firebase app instance. The service
// account credential is required: a missing or unreadable file must stop
// process startup rather than degrade into a server that cannot deliver.
func InitFirebase() (*firebase.App, error) {
	ctx := context.Background()

	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	projectID := os.Getenv("FIREBASE_PROJECT_ID")

	if serviceAccountPath == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_PATH is not set; download the service account key from Firebase Console > Project Settings > Service Accounts")
	}
	if _, err := os.Stat(serviceAccountPath); err != nil {
		return nil, fmt.Errorf("firebase service account file not readable at %s: %w", serviceAccountPath, err)
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	config := &firebase.Config{
		ProjectID: projectID,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	return app, nil
}
