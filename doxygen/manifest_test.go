package doxygen_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/doxygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("maps characters to shard files by position", func(t *testing.T) {
		t.Parallel()

		m, err := doxygen.ParseManifest(readTestdata(t, "searchdata.js"))
		require.NoError(t, err)
		require.Len(t, m.Sections, 3)

		classes, ok := m.Section("classes")
		require.True(t, ok)
		assert.Equal(t, "Classes", classes.Label)

		name, ok := classes.FileName("s")
		require.True(t, ok)
		assert.Equal(t, "classes_10.js", name)

		name, ok = classes.FileName("a")
		require.True(t, ok)
		assert.Equal(t, "classes_0.js", name)

		_, ok = classes.FileName("j")
		assert.False(t, ok)
	})

	t.Run("lists section characters in manifest order", func(t *testing.T) {
		t.Parallel()

		m, err := doxygen.ParseManifest(readTestdata(t, "searchdata.js"))
		require.NoError(t, err)

		all, ok := m.Section("all")
		require.True(t, ok)
		ids := all.IDs()

		assert.Len(t, ids, 28)
		assert.Equal(t, "_", ids[0])
		assert.Equal(t, "~", ids[27])
		name, _ := all.FileName("~")
		assert.Equal(t, "all_1b.js", name)
	})

	t.Run("reads the per-character flag layout", func(t *testing.T) {
		t.Parallel()

		flags := []byte(strings.Repeat("0", 256))
		flags['s'] = '1'
		flags['w'] = '1'
		src := `var indexSectionsWithContent = { 0: "` + string(flags) + `" };
var indexSectionNames = { 0: "classes" };`

		m, err := doxygen.ParseManifest([]byte(src))
		require.NoError(t, err)

		classes, ok := m.Section("classes")
		require.True(t, ok)
		assert.Equal(t, []string{"s", "w"}, classes.IDs())
		name, ok := classes.FileName("s")
		require.True(t, ok)
		assert.Equal(t, "classes_73.js", name)
	})

	t.Run("unknown section", func(t *testing.T) {
		t.Parallel()

		m, err := doxygen.ParseManifest(readTestdata(t, "searchdata.js"))
		require.NoError(t, err)

		_, ok := m.Section("namespaces")
		assert.False(t, ok)
	})

	t.Run("rejects incomplete manifests", func(t *testing.T) {
		t.Parallel()

		tests := map[string]string{
			"no content table": `var indexSectionNames = { 0: "all" };`,
			"no names table":   `var indexSectionsWithContent = { 0: "abc" };`,
			"unnamed section":  `var indexSectionsWithContent = { 0: "abc", 1: "x" }; var indexSectionNames = { 0: "all" };`,
			"bad index":        `var indexSectionsWithContent = { a: "abc" }; var indexSectionNames = { a: "all" };`,
		}
		for name, src := range tests {
			_, err := doxygen.ParseManifest([]byte(src))
			assert.Equal(t, docsearch.EMALFORMED, docsearch.ErrorCode(err), name)
		}
	})
}
