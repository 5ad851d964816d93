package env

import "os"

// Prefix matches the envconfig prefix used by pkg/config so ad-hoc reads
// stay in the same namespace.
const Prefix = "GALERIA_"

// Get reads a prefixed environment variable, falling back to the bare name
// and then to the provided default.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
