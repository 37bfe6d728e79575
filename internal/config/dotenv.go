package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv overloads the process environment from the given .env files,
// later files winning. Missing files are skipped; the files actually read
// are returned.
func LoadDotEnv(files ...string) ([]string, error) {
	var found []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		found = append(found, f)
	}
	if len(found) == 0 {
		return nil, nil
	}

	if err := godotenv.Overload(found...); err != nil {
		return nil, err
	}
	return found, nil
}
