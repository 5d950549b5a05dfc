package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [dir]", watchCmd.Use)
}

func TestWatchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestWatchCmd_ErrorsWithoutServices(t *testing.T) {
	oldLibrary := libraryService
	libraryService = nil
	defer func() { libraryService = oldLibrary }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "/tmp/inbox"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
