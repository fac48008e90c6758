package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentVariables(t *testing.T) {
	t.Setenv("DRIVERPORTAL_TEST_VALUE", "a=b")

	assert.Equal(t, "a=b", GetEnvironmentVariables()["DRIVERPORTAL_TEST_VALUE"])
}

func TestGetEnvironmentVariable(t *testing.T) {
	t.Setenv("DRIVERPORTAL_TEST_LISTEN", ":9090")
	t.Setenv("DRIVERPORTAL_TEST_EMPTY", "")

	assert.Equal(t, ":9090", GetEnvironmentVariable("DRIVERPORTAL_TEST_LISTEN", ":8080"))
	assert.Equal(t, ":8080", GetEnvironmentVariable("DRIVERPORTAL_TEST_EMPTY", ":8080"))
	assert.Equal(t, "x", GetEnvironmentVariable("DRIVERPORTAL_TEST_UNSET", "x"))
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", TrimString("abcdef", 3))
	assert.Equal(t, "ab", TrimString("ab", 3))
}
