// README: Firebase ID-token verification for the auth middleware.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseToken is the verified caller identity: the Firebase UID plus any
// custom claims (the role claim among them).
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier checks a raw bearer token. The middleware depends on this
// interface so tests can substitute a stub.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

type adminVerifier struct {
	auth *auth.Client
}

// NewFirebaseVerifier builds a TokenVerifier on the Firebase Admin SDK.
// projectID must match the project that issued the tokens. credentialsFile is
// optional; when empty the SDK falls back to application-default credentials
// (GOOGLE_APPLICATION_CREDENTIALS).
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &adminVerifier{auth: authClient}, nil
}

func (v *adminVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	tok, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return &FirebaseToken{UID: tok.UID, Claims: tok.Claims}, nil
}
