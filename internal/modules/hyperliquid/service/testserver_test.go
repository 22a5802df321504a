package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
)

// fakeAPI отвечает на /info по полю type, на /exchange заданным телом.
type fakeAPI struct {
	mu       sync.Mutex
	info     map[string]string
	exchange string
	calls    map[string]int
	lastExch map[string]any
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{info: map[string]string{}, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = sonic.Unmarshal(body, &req)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/info":
		typ, _ := req["type"].(string)
		f.calls[typ]++
		resp, ok := f.info[typ]
		if !ok {
			http.Error(w, "unknown type", http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(resp))
	case "/exchange":
		f.calls["exchange"]++
		f.lastExch = req
		_, _ = w.Write([]byte(f.exchange))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) count(typ string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[typ]
}

const (
	testMeta     = `{"universe":[{"name":"BTC","szDecimals":5},{"name":"ETH","szDecimals":4},{"name":"SOL","szDecimals":2}]}`
	testSpotMeta = `{"universe":[{"name":"PURR/USDC","tokens":[1,0],"index":0},{"name":"@107","tokens":[150,0],"index":107}],
		"tokens":[{"name":"USDC","szDecimals":8,"index":0},{"name":"PURR","szDecimals":0,"index":1},{"name":"HYPE","szDecimals":2,"index":150}]}`
)
