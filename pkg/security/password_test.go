package security

import (
	"strings"
	"testing"

	"github.com/rohankarki/utsavhub-backend/pkg/config"
)

func testConfig() config.PasswordConfig {
	// Small parameters keep the test fast; production values come from env.
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("s3cret-tent", testConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("s3cret-tent", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong", encoded)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to fail verification")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("pw", "$argon2id$v=19$garbage"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("same-password", testConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("same-password", testConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected unique salts to produce distinct hashes")
	}
}
