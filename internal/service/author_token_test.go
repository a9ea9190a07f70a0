package service

import (
	"errors"
	"testing"
	"time"

	"github.com/inkpost/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthorTokenRoundTrip(t *testing.T) {
	svc := NewAuthorTokenService(config.JWTConfig{SecretKey: "secret", Issuer: "inkpost", ExpireHours: 1})
	token, expiresAt, err := svc.Generate("author-1")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry: %s", expiresAt)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AuthorID != "author-1" || claims.Issuer != "inkpost" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthorTokenRejects(t *testing.T) {
	svc := NewAuthorTokenService(config.JWTConfig{SecretKey: "secret", Issuer: "inkpost"})
	if _, _, err := svc.Generate("  "); !errors.Is(err, ErrAuthorRequired) {
		t.Fatalf("blank author should be rejected, got %v", err)
	}

	other := NewAuthorTokenService(config.JWTConfig{SecretKey: "other", Issuer: "inkpost"})
	forged, _, err := other.Generate("author-1")
	if err != nil {
		t.Fatalf("generate forged token failed: %v", err)
	}
	if _, err := svc.Parse(forged); !errors.Is(err, ErrAuthorTokenInvalid) {
		t.Fatalf("wrong secret should be rejected, got %v", err)
	}

	wrongIssuer := NewAuthorTokenService(config.JWTConfig{SecretKey: "secret", Issuer: "elsewhere"})
	token, _, _ := wrongIssuer.Generate("author-1")
	if _, err := svc.Parse(token); !errors.Is(err, ErrAuthorTokenInvalid) {
		t.Fatalf("wrong issuer should be rejected, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, AuthorJWTClaims{AuthorID: "author-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token failed: %v", err)
	}
	if _, err := svc.Parse(unsigned); !errors.Is(err, ErrAuthorTokenInvalid) {
		t.Fatalf("unsigned token should be rejected, got %v", err)
	}
}
