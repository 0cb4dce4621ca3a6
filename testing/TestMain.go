// Package testing puts the catalog in test mode for every test binary that
// imports it: main skips its listeners and the default store is in memory.
package testing

import "os"

func init() {
	setDefault("CATALOG_TEST_MODE", "1")
	setDefault("CATALOG_STORE", "memory")
}

func setDefault(key, value string) {
	if _, ok := os.LookupEnv(key); !ok {
		_ = os.Setenv(key, value)
	}
}
