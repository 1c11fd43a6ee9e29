package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	flags := Flags{
		Project:    "/work",
		Processors: 8,
		NameFilter: "*math*",
		Split:      true,
		Timeout:    time.Minute,
		Verbose:    true,
	}

	cfgFlags := flags.ToConfigFlags()

	assert.Equal(t, 8, cfgFlags.Processors)
	assert.Equal(t, "*math*", cfgFlags.NameFilter)
	assert.True(t, cfgFlags.Split)
	assert.Equal(t, time.Minute, cfgFlags.Timeout)
	assert.True(t, cfgFlags.Verbose)
	assert.False(t, cfgFlags.FailFast)
}
