package env

import (
	"os"

	"github.com/joho/godotenv"
)

type convertible interface {
	~[]byte | ~string
}

var (
	APP_PORT           string
	DB_CONN            string
	HS256_SECRET       []byte
	ADMIN_TOKEN        string
	STORAGE_ADDR       string
	STORAGE_PUBLIC_URL string
	ATTACHMENTS_BUCKET string
)

func initEnv[T convertible](dst *T, key, fallback string) {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	*dst = T(v)
}

// Load populates the package vars from the process environment, reading a
// .env file first if one exists. ADMIN_TOKEN is deliberately optional: when
// absent the admin endpoint answers 500 to every request.
func Load() {
	godotenv.Load()
	initEnv(&APP_PORT, "APP_PORT", "8080")
	initEnv(&DB_CONN, "DB_CONN", "")
	initEnv(&HS256_SECRET, "HS256_SECRET", "")
	initEnv(&ADMIN_TOKEN, "ADMIN_TOKEN", "")
	initEnv(&STORAGE_ADDR, "STORAGE_ADDR", "")
	initEnv(&STORAGE_PUBLIC_URL, "STORAGE_PUBLIC_URL", "")
	initEnv(&ATTACHMENTS_BUCKET, "ATTACHMENTS_BUCKET", "attachments")
}

// Missing reports the required vars Load left empty.
func Missing() []string {
	var keys []string
	if DB_CONN == "" {
		keys = append(keys, "DB_CONN")
	}
	if len(HS256_SECRET) == 0 {
		keys = append(keys, "HS256_SECRET")
	}
	return keys
}
