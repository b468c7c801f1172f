package main

import (
	"os"
	"testing"
)

func setupTestEnv() {
	os.Setenv("HUNYUAN_TOKEN", "test_token")
	os.Setenv("TENCENTCLOUD_SECRETID", "test_secret_id")
	os.Setenv("TENCENTCLOUD_SECRETKEY", "test_secret_key")
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("SQLITE_PATH", ":memory:")
}

func cleanupTestEnv() {
	os.Unsetenv("HUNYUAN_TOKEN")
	os.Unsetenv("TENCENTCLOUD_SECRETID")
	os.Unsetenv("TENCENTCLOUD_SECRETKEY")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("SQLITE_PATH")
}

func TestMain(m *testing.M) {
	setupTestEnv()
	code := m.Run()
	cleanupTestEnv()
	os.Exit(code)
}
