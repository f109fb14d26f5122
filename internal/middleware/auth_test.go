package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"contauno/internal/config"
	"contauno/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{JWTSecret: "test-secret", JWTExpirationDur: time.Hour})
}

func testUser() *models.User {
	return &models.User{Base: models.Base{ID: "0190f000-0000-7000-8000-0000000000aa"}, Email: "owner@shop.test"}
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAuthMiddleware(t *testing.T) {
	access, err := GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("failed to sign access token: %v", err)
	}
	refresh, err := GenerateRefreshToken(testUser())
	if err != nil {
		t.Fatalf("failed to sign refresh token: %v", err)
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:    testUser().ID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forged, _ := foreign.SignedString([]byte("another-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:    testUser().ID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	stale, _ := expired.SignedString([]byte("test-secret"))

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantErrorCode string
	}{
		{"valid access token", "Bearer " + access, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh token rejected", "Bearer " + refresh, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"wrong signing key", "Bearer " + forged, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expired", "Bearer " + stale, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(setupAuthRouter(), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantErrorCode != "" {
				if code := errorCode(t, rec); code != tt.wantErrorCode {
					t.Errorf("expected error code %s, got %s", tt.wantErrorCode, code)
				}
				return
			}
			if got := parseBody(t, rec)["user_id"]; got != testUser().ID {
				t.Errorf("expected user_id %s in context, got %v", testUser().ID, got)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	refresh, _ := GenerateRefreshToken(testUser())
	access, _ := GenerateAccessToken(testUser())

	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected refresh token to validate: %v", err)
	}
	if claims.UserID != testUser().ID || claims.Subject != testUser().ID {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}
	if _, err := ValidateRefreshToken("not-a-jwt"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	if len(h) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h))
	}
	if h != HashToken("abc") || h == HashToken("abd") {
		t.Error("expected a deterministic, input-sensitive digest")
	}
}
