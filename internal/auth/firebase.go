package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/GoSim-25-26J-441/go-reviews-backend/config"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK. Credentials come
// from FIREBASE_CREDENTIALS_PATH when set, otherwise from Application
// Default Credentials.
func InitializeFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*firebase.App, error) {
	var opt option.ClientOption
	if cfg.CredentialsPath != "" {
		opt = option.WithCredentialsFile(cfg.CredentialsPath)
	} else {
		creds, err := google.FindDefaultCredentials(ctx,
			"https://www.googleapis.com/auth/cloud-platform",
			"https://www.googleapis.com/auth/firebase.database",
			"https://www.googleapis.com/auth/userinfo.email",
		)
		if err != nil {
			return nil, fmt.Errorf("no Firebase credentials: set FIREBASE_CREDENTIALS_PATH or configure ADC: %w", err)
		}
		opt = option.WithCredentials(creds)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	return app, nil
}

// Provider is the identity provider used for sign-in and sign-out.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error)
	RevokeSession(ctx context.Context, uid string) error
}

// FirebaseProvider implements Provider with Firebase Authentication.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(token.UID, token.Claims), nil
}

// RevokeSession invalidates the user's refresh tokens so the browser SDK
// session cannot be renewed.
func (p *FirebaseProvider) RevokeSession(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}

func identityFromClaims(uid string, claims map[string]interface{}) *domain.Identity {
	id := &domain.Identity{UID: uid}
	if name, ok := claims["name"].(string); ok {
		id.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if id.DisplayName == "" {
		id.DisplayName = id.Email
	}
	return id
}
