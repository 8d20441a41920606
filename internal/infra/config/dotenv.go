package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/daybook-app/daybook/internal/domain"
)

// LoadDotEnv loads the .env file of each directory that has one.
// Variables already present in the environment are never overwritten, and
// earlier directories win over later ones.
func LoadDotEnv(dirs ...string) error {
	var files []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, domain.DotEnvFileName)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return godotenv.Load(files...)
}
