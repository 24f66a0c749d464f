package constants

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads ./.env if there is one. Variables already set in the
// environment win.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		panic("Could not load .env: " + err.Error())
	}
}

func GetOutDir() string {
	path := os.Getenv("NOTETREE_OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetFrequencyTablePath is empty when the built-in table should be used.
func GetFrequencyTablePath() string {
	return os.Getenv("NOTETREE_FREQ_TABLE")
}

func GetConfigPath() string {
	return os.Getenv("NOTETREE_CONFIG")
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetDynamoRegion() string {
	region := os.Getenv("AWS_REGION")
	if region != "" {
		return region
	}
	return "localhost"
}

func GetScoresTable() string {
	table := os.Getenv("NOTETREE_SCORES_TABLE")
	if table != "" {
		return table
	}
	return "notetree-scores"
}

const DefaultSampleRate = 44100

const DefaultBeatsPerBar = 4

const DefaultTicksPerQuarter = 960
