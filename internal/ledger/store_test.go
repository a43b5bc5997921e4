// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/advisory-engine/internal/gate"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()}, types.DefaultStages())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecordAndRestore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := s.Record(ctx, "rapport-1", types.StageConcept, "Conceptadvies versie A")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := s.Record(ctx, "rapport-1", types.StageFinal, "Definitief advies versie B")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	doc, err := s.Document(ctx, "rapport-1")
	require.NoError(t, err)
	latest, ok := doc.Latest()
	require.True(t, ok)
	assert.Equal(t, "Definitief advies versie B", latest.Content)

	restored, err := s.Restore(ctx, "rapport-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "Conceptadvies versie A", restored.Content)
	assert.Equal(t, 3, restored.Version)

	doc, err = s.Document(ctx, "rapport-1")
	require.NoError(t, err)
	latest, ok = doc.Latest()
	require.True(t, ok)
	assert.Equal(t, "Conceptadvies versie A", latest.Content)
	assert.Len(t, doc.History(), 3)
}

func TestStoreNewReportIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	doc, err := s.Document(ctx, "onbekend-rapport")
	require.NoError(t, err)
	_, ok := doc.Latest()
	assert.False(t, ok)
	assert.Empty(t, doc.History())
}

func TestStoreOutputsFeedGate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	verdict := `{"status": "COMPLEET", "dossier": {"samenvatting_onderwerp": "Afkoop lijfrente"}}`
	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageIntake, verdict))

	raw, ok, err := s.Output(ctx, "rapport-1", types.StageIntake)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, verdict, raw)

	outputs, err := s.Outputs(ctx, "rapport-1")
	require.NoError(t, err)

	g, err := gate.New(types.DefaultStages(), gate.MapSource(outputs))
	require.NoError(t, err)

	canRun, err := g.CanRun(types.StageConcept)
	require.NoError(t, err)
	assert.True(t, canRun)

	summary, ok := g.Summary(types.StageIntake)
	require.True(t, ok)
	assert.Equal(t, "Afkoop lijfrente", summary)
}

func TestStoreSaveOutputReplaces(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageConcept, "eerste run"))
	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageConcept, "tweede run"))

	raw, ok, err := s.Output(ctx, "rapport-1", types.StageConcept)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tweede run", raw)
}

func TestStoreClearFrom(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageIntake, `{"status": "COMPLEET"}`))
	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageConcept, "conceptadvies"))
	require.NoError(t, s.SaveOutput(ctx, "rapport-1", types.StageReviewFiscaal, "bevindingen"))

	_, err := s.Record(ctx, "rapport-1", types.StageConcept, "conceptadvies")
	require.NoError(t, err)
	_, err = s.Record(ctx, "rapport-1", types.StageFinal, "eindversie")
	require.NoError(t, err)

	cleared, err := s.ClearFrom(ctx, "rapport-1", types.StageConcept)
	require.NoError(t, err)
	assert.Equal(t, []string{
		types.StageConcept, types.StageReviewFiscaal, types.StageReviewJuridisch, types.StageFinal,
	}, cleared)

	// Outputs before the cleared stage survive.
	_, ok, err := s.Output(ctx, "rapport-1", types.StageIntake)
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = s.Output(ctx, "rapport-1", types.StageConcept)
	require.NoError(t, err)
	assert.False(t, ok)

	doc, err := s.Document(ctx, "rapport-1")
	require.NoError(t, err)
	_, ok = doc.Content(types.StageConcept)
	assert.False(t, ok)
	assert.Len(t, doc.History(), 2, "history survives a cascade clear")

	snap, err := s.Record(ctx, "rapport-1", types.StageConcept, "herzien concept")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Version, "version counter survives a cascade clear")
}

func TestStoreUnknownStage(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	assert.Error(t, s.SaveOutput(ctx, "rapport-1", "nonexistent", "x"))
	_, err := s.ClearFrom(ctx, "rapport-1", "nonexistent")
	assert.Error(t, err)
	_, err = s.Record(ctx, "rapport-1", "nonexistent", "x")
	assert.Error(t, err)
}

func TestStoreIsolatesReports(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Record(ctx, "rapport-1", types.StageConcept, "advies voor rapport 1")
	require.NoError(t, err)
	_, err = s.Record(ctx, "rapport-2", types.StageConcept, "advies voor rapport 2")
	require.NoError(t, err)

	doc, err := s.Document(ctx, "rapport-2")
	require.NoError(t, err)
	latest, ok := doc.Latest()
	require.True(t, ok)
	assert.Equal(t, "advies voor rapport 2", latest.Content)
	assert.Equal(t, 1, latest.Version, "version counters are per report")
}
