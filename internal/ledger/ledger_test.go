// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisory-engine/pkg/types"
)

func newDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(types.DefaultStages())
	require.NoError(t, err)
	return doc
}

func TestDocumentRecordAndRestore(t *testing.T) {
	doc := newDoc(t)

	first, err := doc.Record(types.StageConcept, "Conceptadvies versie A")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, types.StageConcept, first.StageKey)

	second, err := doc.Record(types.StageFinal, "Definitief advies versie B")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	latest, ok := doc.Latest()
	require.True(t, ok)
	assert.Equal(t, "Definitief advies versie B", latest.Content)
	assert.Equal(t, types.StageFinal, latest.StageKey)
	assert.Equal(t, 2, latest.Version)

	restored, err := doc.Restore(1)
	require.NoError(t, err)
	assert.Equal(t, "Conceptadvies versie A", restored.Content)
	assert.Equal(t, types.StageConcept, restored.StageKey)
	assert.Equal(t, 3, restored.Version, "restore mints a fresh version")

	latest, ok = doc.Latest()
	require.True(t, ok)
	assert.Equal(t, "Conceptadvies versie A", latest.Content)

	history := doc.History()
	require.Len(t, history, 3, "restore appends, never rewrites")
	assert.Equal(t, types.StageConcept, history[2].StageKey)

	pointer, ok := doc.Pointer()
	require.True(t, ok)
	assert.Equal(t, types.StageConcept, pointer.StageKey)
	assert.Equal(t, 3, pointer.Version)
}

func TestDocumentRestoreResolvesCurrentStageContent(t *testing.T) {
	doc := newDoc(t)
	_, err := doc.Record(types.StageConcept, "eerste versie")
	require.NoError(t, err)
	_, err = doc.Record(types.StageConcept, "tweede versie")
	require.NoError(t, err)

	// One content per stage: version 1's text is gone, so the restore
	// hands back the stage's newest text under a fresh version.
	snap, err := doc.Restore(1)
	require.NoError(t, err)
	assert.Equal(t, types.StageConcept, snap.StageKey)
	assert.Equal(t, 3, snap.Version)
	assert.Equal(t, "tweede versie", snap.Content)
}

func TestDocumentRestoreUnknownVersion(t *testing.T) {
	doc := newDoc(t)
	_, err := doc.Record(types.StageConcept, "Conceptadvies")
	require.NoError(t, err)

	_, err = doc.Restore(42)
	assert.Error(t, err)
}

func TestDocumentRecordValidation(t *testing.T) {
	doc := newDoc(t)

	for _, key := range []string{types.VersionKeyLatest, types.VersionKeyHistory} {
		_, err := doc.Record(key, "inhoud")
		assert.Error(t, err, "reserved key %s must be rejected", key)
	}

	_, err := doc.Record("nonexistent", "inhoud")
	assert.Error(t, err)
}

func TestDocumentLatestFallbacks(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		doc := newDoc(t)
		_, ok := doc.Latest()
		assert.False(t, ok)
	})

	t.Run("no pointer falls back to primary stage", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"concept": "conceptadvies", "final": "eindversie"}`), types.DefaultStages())
		require.NoError(t, err)

		latest, ok := doc.Latest()
		require.True(t, ok)
		assert.Equal(t, types.StageConcept, latest.StageKey)
		assert.Equal(t, "conceptadvies", latest.Content)
	})

	t.Run("no primary content scans pipeline order", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"final": "eindversie"}`), types.DefaultStages())
		require.NoError(t, err)

		latest, ok := doc.Latest()
		require.True(t, ok)
		assert.Equal(t, types.StageFinal, latest.StageKey)
	})

	t.Run("empty content is skipped in the pipeline scan", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"intake": "", "final": "eindversie"}`), types.DefaultStages())
		require.NoError(t, err)

		latest, ok := doc.Latest()
		require.True(t, ok)
		assert.Equal(t, types.StageFinal, latest.StageKey)
		assert.Equal(t, "eindversie", latest.Content)
	})

	t.Run("reviewer content never resolves as latest", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"review_fiscaal": "bevindingen"}`), types.DefaultStages())
		require.NoError(t, err)

		_, ok := doc.Latest()
		assert.False(t, ok)
	})

	t.Run("stale pointer falls back", func(t *testing.T) {
		doc := newDoc(t)
		_, err := doc.Record(types.StageConcept, "conceptadvies")
		require.NoError(t, err)
		_, err = doc.Record(types.StageFinal, "eindversie")
		require.NoError(t, err)

		doc.Remove(types.StageFinal)

		latest, ok := doc.Latest()
		require.True(t, ok)
		assert.Equal(t, types.StageConcept, latest.StageKey)
	})
}

func TestDocumentRemoveKeepsVersionCounter(t *testing.T) {
	doc := newDoc(t)

	_, err := doc.Record(types.StageConcept, "eerste versie")
	require.NoError(t, err)
	_, err = doc.Record(types.StageConcept, "tweede versie")
	require.NoError(t, err)

	doc.Remove(types.StageConcept)
	_, ok := doc.Content(types.StageConcept)
	assert.False(t, ok)

	snap, err := doc.Record(types.StageConcept, "derde versie")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Version, "versions are never reused after removal")
	assert.Len(t, doc.History(), 3)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := newDoc(t)
	_, err := doc.Record(types.StageConcept, "conceptadvies")
	require.NoError(t, err)
	_, err = doc.Record(types.StageFinal, "eindversie")
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := ParseDocument(data, types.DefaultStages())
	require.NoError(t, err)

	assert.Equal(t, doc.History(), parsed.History())

	wantPtr, ok := doc.Pointer()
	require.True(t, ok)
	gotPtr, ok := parsed.Pointer()
	require.True(t, ok)
	assert.Equal(t, wantPtr, gotPtr)

	content, ok := parsed.Content(types.StageConcept)
	require.True(t, ok)
	assert.Equal(t, "conceptadvies", content)
}

func TestParseDocumentUnknownStage(t *testing.T) {
	_, err := ParseDocument([]byte(`{"mystery": "inhoud"}`), types.DefaultStages())
	assert.Error(t, err)
}
