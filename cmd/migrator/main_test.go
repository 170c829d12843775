package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	o := parseFlags([]string{"-s", "u:p@localhost/shop", "--migrations-path", "./migrations", "--down"})

	assert.Equal(t, "u:p@localhost/shop", o.storagePath)
	assert.Equal(t, "./migrations", o.migrationsPath)
	assert.True(t, o.down)
	assert.NoError(t, o.validate())
}

func TestValidate_ReportsEveryMissingFlag(t *testing.T) {
	err := parseFlags(nil).validate()

	assert.ErrorContains(t, err, "--storage-path flag: required")
	assert.ErrorContains(t, err, "--migrations-path flag: required")
}
