package auth

import (
	"context"
	"errors"
	"testing"
)

func TestAPIKeyAuthenticate(t *testing.T) {
	authenticator := NewAPIKeyAuthenticator([]string{"key-one", "key-two", ""})
	ctx := context.Background()

	tests := []struct {
		name       string
		token      string
		shouldFail bool
	}{
		{"valid key", "key-one", false},
		{"valid key with bearer prefix", "Bearer key-two", false},
		{"bearer prefix with padding", "Bearer  key-one ", false},
		{"unknown key", "wrong-key", true},
		{"empty token", "", true},
		{"bare bearer prefix", "Bearer ", true},
		{"empty configured key is not valid", "Bearer ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientID, err := authenticator.Authenticate(ctx, tt.token)

			if tt.shouldFail {
				if !errors.Is(err, ErrAuthenticationFailed) {
					t.Errorf("err = %v, want ErrAuthenticationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if clientID != "apikey" {
				t.Errorf("clientID = %q, want apikey", clientID)
			}
		})
	}
}
