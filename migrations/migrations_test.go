package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			entries, err := fs.ReadDir(files, driver)
			require.NoError(t, err)

			ups, downs := 0, 0
			for _, e := range entries {
				switch {
				case strings.HasSuffix(e.Name(), ".up.sql"):
					ups++
				case strings.HasSuffix(e.Name(), ".down.sql"):
					downs++
				}
			}
			assert.Equal(t, 2, ups)
			assert.Equal(t, ups, downs)
		})
	}
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	_, err := New("sqlite", "sqlite://registry.db")
	assert.Error(t, err)
}
