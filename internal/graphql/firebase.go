package graphql

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/nexus-social/backend/internal/models"
)

// UserLookup maps an external identity to a local account.
type UserLookup interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
}

// FirebaseVerifier validates Firebase ID tokens and resolves the local
// user linked to the Firebase UID. Selected with AUTH_PROVIDER=firebase.
type FirebaseVerifier struct {
	client *auth.Client
	users  UserLookup
}

func NewFirebaseVerifier(client *auth.Client, users UserLookup) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (Principal, error) {
	token, err := v.client.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	user, err := v.users.GetByFirebaseUID(ctx, token.UID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: no account for uid", ErrInvalidToken)
	}
	return Principal{UserID: user.ID, Email: user.Email, Staff: user.IsStaff}, nil
}
