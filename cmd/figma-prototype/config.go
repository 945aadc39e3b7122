package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/kataras/figma-prototype/pkg/sink"

	"github.com/joho/godotenv"
)

// envConfig holds the settings read from the environment and an optional .env file.
type envConfig struct {
	Token string
	S3    sink.S3Config
}

func loadEnv() envConfig {
	_ = godotenv.Load()

	return envConfig{
		Token: strings.TrimSpace(os.Getenv("FIGMA_TOKEN")),
		S3: sink.S3Config{
			Endpoint:  strings.TrimSpace(os.Getenv("PROTOTYPE_S3_ENDPOINT")),
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("PROTOTYPE_S3_REGION")), "us-east-1"),
			AccessKey: strings.TrimSpace(os.Getenv("PROTOTYPE_S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("PROTOTYPE_S3_SECRET_KEY")),
			Bucket:    strings.TrimSpace(os.Getenv("PROTOTYPE_S3_BUCKET")),
			Prefix:    strings.TrimSpace(os.Getenv("PROTOTYPE_S3_PREFIX")),
			UseSSL:    parseBool(os.Getenv("PROTOTYPE_S3_USE_SSL"), true),
		},
	}
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
