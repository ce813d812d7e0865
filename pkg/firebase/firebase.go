package firebase

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App bundles the Firebase-backed clients the application depends on:
// Auth (identity provider), Firestore (document store) and the default
// Cloud Storage bucket.
type App struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Bucket    *gcs.BucketHandle
}

// NewApp initializes the Firebase app and the clients derived from it.
func NewApp(ctx context.Context, projectID, storageBucket, credentialsFile string) (*App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	conf := &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: storageBucket,
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get default storage bucket: %w", err)
	}

	log.Println("[Firebase] App initialized successfully")
	return &App{
		Auth:      authClient,
		Firestore: firestoreClient,
		Bucket:    bucket,
	}, nil
}

// Close releases the underlying client connections.
func (a *App) Close() error {
	return a.Firestore.Close()
}

// Identity adapts the Firebase Auth client to the identity provider
// interface the auth usecase consumes.
type Identity struct {
	client *auth.Client
}

func NewIdentity(client *auth.Client) *Identity {
	return &Identity{client: client}
}

func (i *Identity) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := i.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

func (i *Identity) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)

	record, err := i.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}
	return record.UID, nil
}

func (i *Identity) GetUserEmail(ctx context.Context, uid string) (string, error) {
	record, err := i.client.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}
	return record.Email, nil
}

func (i *Identity) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&auth.UserToUpdate{}).Password(newPassword)
	_, err := i.client.UpdateUser(ctx, uid, params)
	return err
}

func (i *Identity) DeleteUser(ctx context.Context, uid string) error {
	return i.client.DeleteUser(ctx, uid)
}
