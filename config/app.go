package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ExtractorVertex = "vertex"
	ExtractorGemini = "gemini"
)

// App holds the settings that are not owned by a single backend.
type App struct {
	Port              string
	ExtractionTimeout time.Duration
	MaxUploadBytes    int64

	ClerkJWTKey            string
	ClerkAuthorizedParties []string
	ClerkSignInURL         string
	ClerkSignOutURL        string

	Extractor    string
	GCPProject   string
	GCPLocation  string
	GeminiModel  string
	GeminiAPIKey string

	GCSBucket   string
	CORSOrigins []string
}

func LoadApp() App {
	a := App{
		Port:              envOr("PORT", "8080"),
		ExtractionTimeout: 90 * time.Second,
		MaxUploadBytes:    10 << 20,

		ClerkJWTKey:            strings.ReplaceAll(os.Getenv("CLERK_JWT_KEY"), `\n`, "\n"),
		ClerkAuthorizedParties: splitList(os.Getenv("CLERK_AUTHORIZED_PARTIES")),
		ClerkSignInURL:         envOr("CLERK_SIGN_IN_URL", "/sign-in"),
		ClerkSignOutURL:        envOr("CLERK_SIGN_OUT_URL", "/sign-out"),

		Extractor:    strings.ToLower(envOr("EXTRACTOR", ExtractorVertex)),
		GCPProject:   os.Getenv("GCP_PROJECT"),
		GCPLocation:  envOr("GCP_LOCATION", "us-central1"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		GCSBucket:   os.Getenv("GCS_BUCKET"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	}

	if v := os.Getenv("EXTRACTION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			a.ExtractionTimeout = d
		}
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			a.MaxUploadBytes = n
		}
	}
	return a
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
