package tokenlists

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/config"
)

const (
	wethL1 = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	wethL2 = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	daiL1  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

const mainList = `{
	"name": "Main",
	"version": {"major": 1, "minor": 0, "patch": 0},
	"tokens": [
		{
			"chainId": 1,
			"address": "` + wethL1 + `",
			"name": "Wrapped Ether",
			"symbol": "WETH",
			"decimals": 18,
			"extensions": {"bridgeInfo": {"42161": {"tokenAddress": "` + wethL2 + `"}}}
		},
		{
			"chainId": 1,
			"address": "` + daiL1 + `",
			"name": "Dai Stablecoin",
			"symbol": "DAI",
			"decimals": 18,
			"extensions": {"disabled": true}
		},
		{
			"chainId": 137,
			"address": "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
			"name": "Wrong chain",
			"symbol": "USDC",
			"decimals": 6
		}
	]
}`

const secondList = `{
	"name": "Second",
	"version": {"major": 1, "minor": 0, "patch": 0},
	"tokens": [
		{
			"chainId": 1,
			"address": "` + wethL1 + `",
			"name": "Wrapped Ether (alt)",
			"symbol": "WETH",
			"decimals": 18,
			"extensions": {"bridgeInfo": {"eip155:42161": {"tokenAddress": "` + wethL2 + `"}}}
		}
	]
}`

func serveLists(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/main.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(mainList))
	})
	mux.HandleFunc("/second.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(secondList))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestCatalogue(t *testing.T, srv *httptest.Server) *Catalogue {
	t.Helper()
	refs := []config.TokenListRef{
		{ID: "main", Name: "Main", URL: srv.URL + "/main.json", Enabled: true},
		{ID: "second", Name: "Second", URL: srv.URL + "/second.json", Enabled: true},
	}
	c := NewCatalogue(NewClient(ClientConfig{Timeout: 5 * time.Second, Retry: 1}), refs, 1, 42161)
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestCatalogueMapFiltersAndExtracts(t *testing.T) {
	c := newTestCatalogue(t, serveLists(t))

	m := c.Map()
	require.Len(t, m, 2, "wrong-chain entries are dropped")

	weth, ok := m[wethL1]
	require.True(t, ok)
	assert.Equal(t, "WETH", weth.Symbol)
	assert.Equal(t, wethL2, weth.L2Address, "counterpart address from bridgeInfo")
	assert.Equal(t, "main", weth.ListID, "first list in config order wins the record")
	assert.ElementsMatch(t, []string{"main", "second"}, weth.TokenLists)
	assert.Equal(t, "Wrapped Ether", weth.Name)

	dai, ok := m[daiL1]
	require.True(t, ok)
	assert.Empty(t, dai.L2Address)
}

func TestCatalogueEip155BridgeInfoKey(t *testing.T) {
	c := newTestCatalogue(t, serveLists(t))
	require.NoError(t, c.SetEnabled("main", false))

	m := c.Map()
	weth, ok := m[wethL1]
	require.True(t, ok)
	assert.Equal(t, wethL2, weth.L2Address)
	assert.Equal(t, "second", weth.ListID)
}

func TestCatalogueDisabledFlags(t *testing.T) {
	c := newTestCatalogue(t, serveLists(t))

	disabled := c.Disabled()
	assert.True(t, disabled[daiL1])
	assert.False(t, disabled[wethL1])
}

func TestCatalogueSetEnabled(t *testing.T) {
	c := newTestCatalogue(t, serveLists(t))

	require.NoError(t, c.SetEnabled("second", false))
	sts := c.Lists()
	require.Len(t, sts, 2)
	assert.True(t, sts[0].Enabled)
	assert.False(t, sts[1].Enabled)
	assert.Equal(t, 3, sts[0].Tokens)

	assert.Error(t, c.SetEnabled("missing", true))
}

func TestCatalogueDisabledListContributesNothing(t *testing.T) {
	c := newTestCatalogue(t, serveLists(t))
	require.NoError(t, c.SetEnabled("main", false))
	require.NoError(t, c.SetEnabled("second", false))

	assert.Empty(t, c.Map())
	assert.Empty(t, c.Disabled())
}

func TestClientRetriesAndFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{Timeout: 2 * time.Second, Retry: 2})
	_, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(3), hits.Load(), "initial attempt plus two retries")
}

func TestCatalogueRefreshKeepsPreviousDocumentOnFailure(t *testing.T) {
	var fail atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/main.json", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.Write([]byte(mainList))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	refs := []config.TokenListRef{{ID: "main", URL: srv.URL + "/main.json", Enabled: true}}
	c := NewCatalogue(NewClient(ClientConfig{Timeout: 2 * time.Second, Retry: 1}), refs, 1, 42161)
	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, c.Map(), 2)

	fail.Store(true)
	assert.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.Map(), 2, "stale catalogue beats empty catalogue")
}
