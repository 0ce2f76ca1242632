// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package recommend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vitrine-dev/vitrine/internal/recommend"
	"github.com/vitrine-dev/vitrine/internal/store"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sourceVec = []float32{1, 0, 0}

func TestEngine_EmptySourceID(t *testing.T) {
	engine := recommend.NewEngine(&fakeVectorStore{}, recommend.EngineConfig{})

	_, err := engine.FindSimilar(context.Background(), "", 4)
	require.Error(t, err)
	assert.True(t, vitrerr.HasCode(err, vitrerr.CodeRecommendSourceInvalid))
}

func TestEngine_NoEmbeddingIsNotAnError(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: func(context.Context, string, string) (*store.EmbeddingRecord, error) {
			return nil, store.ErrNotFound
		},
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{})

	results, err := engine.FindSimilar(context.Background(), "p-new", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, vs.searchCalls, "no search should run without a source vector")
}

func TestEngine_LookupFailureFailsOpen(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: func(context.Context, string, string) (*store.EmbeddingRecord, error) {
			return nil, errors.New("connection refused")
		},
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{})

	results, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_SearchFailureFailsOpen(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: func(context.Context, []float32, int, store.SearchFilter) ([]store.VectorResult, error) {
			return nil, errors.New("disk on fire")
		},
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{})

	results, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_SelfExclusionPushedToStore(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{})

	_, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)

	require.Len(t, vs.searchCalls, 1)
	assert.Equal(t, store.ItemTypeProduct, vs.searchCalls[0].filter.Type)
	assert.Equal(t, "p1", vs.searchCalls[0].filter.ExcludeItemID)
}

func TestEngine_ScenarioA(t *testing.T) {
	// P2 at similarity 0.9, P3 at 0.6, P4 at 0.3; floor 0.5 keeps P2 and P3.
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(
			store.VectorResult{ID: "e2", ItemID: "p2", Type: store.ItemTypeProduct, Distance: 0.1},
			store.VectorResult{ID: "e3", ItemID: "p3", Type: store.ItemTypeProduct, Distance: 0.4},
			store.VectorResult{ID: "e4", ItemID: "p4", Type: store.ItemTypeProduct, Distance: 0.7},
		),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{DefaultK: 4, MinSimilarity: floorOf(0.5)})

	results, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "p2", results[0].ItemID)
	assert.InDelta(t, 0.9, results[0].Similarity, 1e-9)
	assert.Equal(t, "p3", results[1].ItemID)
	assert.InDelta(t, 0.6, results[1].Similarity, 1e-9)
}

func TestEngine_ResultsSortedAndBounded(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(
			store.VectorResult{ItemID: "p2", Distance: 0.05},
			store.VectorResult{ItemID: "p3", Distance: 0.10},
			store.VectorResult{ItemID: "p4", Distance: 0.15},
			store.VectorResult{ItemID: "p5", Distance: 0.20},
		),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{MinSimilarity: floorOf(0.5)})

	k := 3
	results, err := engine.FindSimilar(context.Background(), "p1", k)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), k)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
	for _, r := range results {
		assert.NotEqual(t, "p1", r.ItemID)
		assert.GreaterOrEqual(t, r.Similarity, 0.5)
	}
}

func TestEngine_DefaultKWhenUnset(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{})

	_, err := engine.FindSimilar(context.Background(), "p1", 0)
	require.NoError(t, err)

	require.Len(t, vs.searchCalls, 1)
	assert.Equal(t, recommend.DefaultK, vs.searchCalls[0].k)
}

func TestEngine_AllBelowFloor(t *testing.T) {
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(
			store.VectorResult{ItemID: "p2", Distance: 0.8},
			store.VectorResult{ItemID: "p3", Distance: 1.5},
		),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{MinSimilarity: floorOf(0.5)})

	results, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_ZeroFloorIsHonored(t *testing.T) {
	// A floor of exactly 0 is a deliberate setting, not an unset value:
	// weak positive matches pass, negative ones do not.
	vs := &fakeVectorStore{
		lookupFn: productEmbedding("p1", sourceVec),
		searchFn: neighbors(
			store.VectorResult{ItemID: "p2", Distance: 0.8},
			store.VectorResult{ItemID: "p3", Distance: 1.2},
		),
	}
	engine := recommend.NewEngine(vs, recommend.EngineConfig{MinSimilarity: floorOf(0)})

	results, err := engine.FindSimilar(context.Background(), "p1", 4)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ItemID)
	assert.InDelta(t, 0.2, results[0].Similarity, 1e-9)
}
