package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "utsavhub-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	storefrontID := uuid.New()
	payload := AccessTokenPayload{
		PrincipalID:  uuid.New(),
		Role:         enums.PrincipalRoleVendor,
		StorefrontID: &storefrontID,
	}

	signed, err := MintAccessToken(testJWTConfig(), time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(testJWTConfig(), signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.PrincipalID != payload.PrincipalID {
		t.Fatalf("expected principal %s got %s", payload.PrincipalID, claims.PrincipalID)
	}
	if claims.Role != enums.PrincipalRoleVendor {
		t.Fatalf("expected vendor role, got %s", claims.Role)
	}
	if claims.StorefrontID == nil || *claims.StorefrontID != storefrontID {
		t.Fatalf("expected storefront %s got %v", storefrontID, claims.StorefrontID)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be populated")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRole("admin"),
	})
	if err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now().Add(-time.Hour), AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}

	if _, err := ParseAccessTokenAllowExpired(testJWTConfig(), signed); err != nil {
		t.Fatalf("expected expired parse to succeed for refresh: %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := testJWTConfig()
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch error")
	}
}
