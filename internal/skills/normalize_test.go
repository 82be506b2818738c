package skills

import (
	"sync"
	"testing"

	"github.com/jonathan/careerpilot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Canonicalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.SkillToken
	}{
		{"lowercase", "Python", "python"},
		{"trim", "  SQL  ", "sql"},
		{"collapse whitespace", "Machine \t  Learning", "machine learning"},
		{"synonym js", "JS", "javascript"},
		{"synonym ts", "ts", "typescript"},
		{"synonym k8s", "K8s", "kubernetes"},
		{"synonym after collapse", "go   lang", "go"},
		{"canonical passes through", "javascript", "javascript"},
		{"unknown skill kept", "Tableau", "tableau"},
	}

	n, err := NewNormalizer(DefaultSynonyms())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := Normalize(input)
		require.Error(t, err)
		assert.True(t, types.IsInvalidInput(err), "input %q", input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n, err := NewNormalizer(map[string]string{
		"a":     "b",
		"b":     "c",
		"ML":    "Machine  Learning",
		"Node":  "node.js",
		"nodes": "NODE",
	})
	require.NoError(t, err)

	inputs := []string{"a", "b", "c", "ml", " ML ", "machine learning", "node", "nodes", "Node.JS", "React", "c++", "C#"}
	for _, input := range inputs {
		once, err := n.Normalize(input)
		require.NoError(t, err)
		twice, err := n.Normalize(string(once))
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestNewNormalizer_ResolvesChains(t *testing.T) {
	n, err := NewNormalizer(map[string]string{"a": "b", "b": "c"})
	require.NoError(t, err)

	got, err := n.Normalize("a")
	require.NoError(t, err)
	assert.Equal(t, types.SkillToken("c"), got)
	assert.Equal(t, map[string]string{"a": "c", "b": "c"}, n.Synonyms())
}

func TestNewNormalizer_RejectsBadTables(t *testing.T) {
	tests := []struct {
		name     string
		synonyms map[string]string
	}{
		{"cycle", map[string]string{"a": "b", "b": "a"}},
		{"empty key", map[string]string{" ": "go"}},
		{"empty value", map[string]string{"go": ""}},
		{"conflicting fold", map[string]string{"JS": "javascript", "js": "ecmascript"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(tt.synonyms)
			require.Error(t, err)
			assert.True(t, types.IsInvalidInput(err))
		})
	}
}

func TestNewNormalizer_IdentityEntriesDropped(t *testing.T) {
	n, err := NewNormalizer(map[string]string{"Go": "go"})
	require.NoError(t, err)
	assert.Empty(t, n.Synonyms())
}

func TestNormalizeAll(t *testing.T) {
	n, err := NewNormalizer(DefaultSynonyms())
	require.NoError(t, err)

	set := n.NormalizeAll([]string{"JS", "javascript", "", "  ", "SQL"})
	assert.Equal(t, types.NewSkillSet("javascript", "sql"), set)

	assert.Nil(t, n.NormalizeAll(nil), "nil input stays undefined")
	empty := n.NormalizeAll([]string{})
	assert.NotNil(t, empty)
	assert.Equal(t, 0, empty.Len())
}

func TestLoadSynonyms_ReplacesTable(t *testing.T) {
	original := Default()
	t.Cleanup(func() { current.Store(original) })

	require.NoError(t, LoadSynonyms(map[string]string{"pg": "postgresql"}))
	got, err := Normalize("PG")
	require.NoError(t, err)
	assert.Equal(t, types.SkillToken("postgresql"), got)

	// The old table is gone, not merged
	got, err = Normalize("js")
	require.NoError(t, err)
	assert.Equal(t, types.SkillToken("js"), got)
}

func TestLoadSynonyms_RejectedTableKeepsPrevious(t *testing.T) {
	original := Default()
	t.Cleanup(func() { current.Store(original) })

	err := LoadSynonyms(map[string]string{"a": "b", "b": "a"})
	require.Error(t, err)
	assert.Same(t, original, Default())
}

func TestNormalize_ConcurrentReload(t *testing.T) {
	original := Default()
	t.Cleanup(func() { current.Store(original) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i == 0 && j%10 == 0 {
					_ = LoadSynonyms(DefaultSynonyms())
				}
				token, err := Normalize("JS")
				assert.NoError(t, err)
				assert.Equal(t, types.SkillToken("javascript"), token)
			}
		}(i)
	}
	wg.Wait()
}

func TestNewNormalizer_ConflictErrorIsStable(t *testing.T) {
	table := map[string]string{"JS": "ecmascript", "js": "javascript"}

	for range 20 {
		_, err := NewNormalizer(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `synonym "js" maps to both "ecmascript" and "javascript"`)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, types.SkillToken("go lang"), Canonical("  Go   LANG "))
	assert.Equal(t, types.SkillToken("js"), Canonical("JS"), "synonyms are not applied")
}
