package app

import "os"

// TestModeEnv is set to "1" by the testing package.
const TestModeEnv = "CATALOG_TEST_MODE"

// InTestMode reports whether main must skip opening listeners and connections.
func InTestMode() bool {
	return os.Getenv(TestModeEnv) == "1"
}
