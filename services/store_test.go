package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/harness"
	"github.com/encryptogroup/dp-KRE/noise"
)

func sampleTrials() []harness.Trial {
	return []harness.Trial{
		{Statistic: dataset.Median, Level: noise.LevelHigh, K: 4, TrueValue: 3, Estimate: 5, Rounds: 4, Elapsed: time.Millisecond},
		{Statistic: dataset.Median, Level: noise.LevelLow, K: 4, TrueValue: 3, Estimate: 3, Rounds: 4, Elapsed: time.Millisecond},
		{Statistic: dataset.Minimum, Level: noise.LevelHigh, K: 1, TrueValue: 1, Estimate: 0, Rounds: 4, Elapsed: time.Millisecond},
	}
}

func TestMemoryStoreSaveAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SaveTrials(ctx, sampleTrials()))

	all, err := store.ListTrials(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	medians, err := store.ListTrials(ctx, dataset.Median)
	require.NoError(t, err)
	require.Len(t, medians, 2)
	for _, trial := range medians {
		require.Equal(t, dataset.Median, trial.Statistic)
	}

	minimums, err := store.ListTrials(ctx, dataset.Minimum)
	require.NoError(t, err)
	require.Len(t, minimums, 1)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SaveTrials(ctx, sampleTrials()))

	first, err := store.ListTrials(ctx, "")
	require.NoError(t, err)
	first[0].Estimate = 999

	second, err := store.ListTrials(ctx, "")
	require.NoError(t, err)
	require.Equal(t, uint64(5), second[0].Estimate)
}

func newResultsServer(t *testing.T, store TrialStore) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	NewResultsHandler(store, slog.Default()).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestResultsHandlerList(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveTrials(context.Background(), sampleTrials()))
	srv := newResultsServer(t, store)

	resp, err := http.Get(srv.URL + "/results")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trials []harness.Trial
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trials))
	require.Len(t, trials, 3)
}

func TestResultsHandlerListByStatistic(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveTrials(context.Background(), sampleTrials()))
	srv := newResultsServer(t, store)

	resp, err := http.Get(srv.URL + "/results/median")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trials []harness.Trial
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trials))
	require.Len(t, trials, 2)
}

func TestResultsHandlerRejectsUnknownStatistic(t *testing.T) {
	srv := newResultsServer(t, NewMemoryStore())

	resp, err := http.Get(srv.URL + "/results/mode")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
