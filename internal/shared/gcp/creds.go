package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ClientOptions turns a credentials reference into client options. The
// reference is inline JSON or a file path; when empty it falls back to
// GOOGLE_APPLICATION_CREDENTIALS_JSON, then to application default credentials.
func ClientOptions(credentials string) []option.ClientOption {
	creds := strings.TrimSpace(credentials)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// ResolveProjectID returns configured when set, otherwise the project of the
// credentials. An explicit credentials reference wins over ADC lookup.
func ResolveProjectID(ctx context.Context, configured, credentials string) (string, error) {
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}

	var (
		found *google.Credentials
		err   error
	)
	raw, readErr := credentialsJSON(credentials)
	if readErr != nil {
		return "", readErr
	}
	if len(raw) > 0 {
		found, err = google.CredentialsFromJSON(ctx, raw, cloudPlatformScope)
	} else {
		found, err = google.FindDefaultCredentials(ctx, cloudPlatformScope)
	}
	if err != nil {
		return "", fmt.Errorf("find google credentials: %w", err)
	}
	if found.ProjectID == "" {
		return "", fmt.Errorf("google credentials carry no project id; set GOOGLE_CLOUD_PROJECT")
	}
	return found.ProjectID, nil
}

func credentialsJSON(credentials string) ([]byte, error) {
	creds := strings.TrimSpace(credentials)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		return nil, nil
	}
	if strings.HasPrefix(creds, "{") {
		return []byte(creds), nil
	}
	data, err := os.ReadFile(creds)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}
