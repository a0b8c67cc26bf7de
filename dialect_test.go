package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_ApplyVocabulary_UnknownRequiredRejected(t *testing.T) {
	reg := NewRegistry()
	dialect, found := reg.Dialects.Lookup(draft2020ID)
	require.True(t, found)

	_, err := dialect.ApplyVocabulary(map[string]bool{
		"https://example.com/vocab/unknown": true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDialectUnknownVocabulary)
}

func TestDialect_ApplyVocabulary_UnknownOptionalAccepted(t *testing.T) {
	reg := NewRegistry()
	dialect, found := reg.Dialects.Lookup(draft2020ID)
	require.True(t, found)

	out, err := dialect.ApplyVocabulary(map[string]bool{
		"https://example.com/vocab/unknown": false,
	})
	require.NoError(t, err)
	assert.Equal(t, dialect.ID, out.ID)
}

func TestDialect_ApplyVocabulary_KnownRequiredAccepted(t *testing.T) {
	reg := NewRegistry()
	dialect, found := reg.Dialects.Lookup(draft2020ID)
	require.True(t, found)

	out, err := dialect.ApplyVocabulary(map[string]bool{
		vocabCore2020:       true,
		vocabApplicator2020: true,
	})
	require.NoError(t, err)
	assert.Equal(t, dialect.ID, out.ID)
}

func TestDialect_ApplyVocabulary_Draft4HasNoVocabularyKeyword(t *testing.T) {
	reg := NewRegistry()
	dialect, found := reg.Dialects.Lookup(draft4ID)
	require.True(t, found)

	out, err := dialect.ApplyVocabulary(map[string]bool{
		"https://example.com/vocab/anything": true,
	})
	require.NoError(t, err, "draft-04 predates $vocabulary and accepts any declaration")
	assert.Equal(t, draft4ID, out.ID)
}

func TestCompile_RejectsUnrecognizedRequiredVocabulary(t *testing.T) {
	r := NewRegistry()
	mustRegisterJSON(t, r, "https://example.com/badvocab.json", map[string]any{
		"$schema": draft2020ID,
		"$vocabulary": map[string]any{
			vocabCore2020:                        true,
			"https://example.com/vocab/unknown": true,
		},
		"type": "string",
	})

	_, err := r.Compile("https://example.com/badvocab.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDialectUnknownVocabulary)
}

func TestDialectRegistry_ClassifyDefaultsTo2020(t *testing.T) {
	r := NewRegistry()
	d, err := r.Dialects.Classify(map[string]any{"type": "string"})
	require.NoError(t, err)
	assert.Equal(t, draft2020ID, d.ID)
}

func TestDialectRegistry_ClassifyExplicitSchema(t *testing.T) {
	r := NewRegistry()
	d, err := r.Dialects.Classify(map[string]any{"$schema": draft7ID})
	require.NoError(t, err)
	assert.Equal(t, draft7ID, d.ID)
}
