package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Fatal("TEST_DATABASE_URL or DATABASE_URL must be set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB cleans up test data
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload creates a mock Clerk webhook body for an event type
func MockClerkWebhookPayload(eventType string, clerkID string) []byte {
	switch eventType {
	case "user.created", "user.updated":
		return []byte(fmt.Sprintf(`{
			"type": "%s",
			"data": {
				"id": "%s",
				"username": "testuser",
				"first_name": "Test",
				"last_name": "User",
				"image_url": "",
				"primary_email_address_id": "email_1",
				"email_addresses": [
					{"id": "email_1", "email_address": "test%s@example.com", "verification": {"status": "verified"}}
				]
			}
		}`, eventType, clerkID, clerkID))
	case "user.deleted":
		return []byte(fmt.Sprintf(`{
			"type": "user.deleted",
			"data": {"id": "%s", "deleted": true}
		}`, clerkID))
	default:
		return []byte(fmt.Sprintf(`{"type": "%s", "data": {}}`, eventType))
	}
}
