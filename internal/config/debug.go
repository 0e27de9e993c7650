package config

import "os"

func IsDebug() bool {
	return os.Getenv("MATRIA_DEBUG") == "1"
}
