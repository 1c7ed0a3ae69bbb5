package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	auction "auction-shop/internal/auctionService"
	"auction-shop/internal/auth"
	catalog "auction-shop/internal/catalogService"
	"auction-shop/internal/notify"
	prefs "auction-shop/internal/prefService"
	"auction-shop/internal/repository"
	"auction-shop/internal/server"

	"github.com/gin-gonic/gin"
)

const adminID = "1939282952"

// captureNotifier records outbound notifications instead of delivering them
type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Notify(recipientID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// testEnv bundles the router with the collaborators tests need to poke at
type testEnv struct {
	router   *gin.Engine
	engine   *auction.Engine
	notifier *captureNotifier
	now      *time.Time
}

// SetupTestEnv initializes the full application wiring on an in-memory
// repository with a controllable clock.
func SetupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	engine := auction.NewEngineWithClock(repo, func() time.Time { return now })
	catalogStore := catalog.NewStore(repo)
	prefStore := prefs.NewStore(repo, "uz", "dark")

	notifier := &captureNotifier{}
	dispatcher := notify.NewDispatcher(notifier, []int64{1939282952})
	policy := auth.NewAdminList([]int64{1939282952})

	router := server.SetupRouter(server.Deps{
		Auctions:   engine,
		Catalog:    catalogStore,
		Prefs:      prefStore,
		Dispatcher: dispatcher,
		Policy:     policy,
	})

	return &testEnv{router: router, engine: engine, notifier: notifier, now: &now}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
// An empty tgID leaves the admin header unset.
func (env *testEnv) ExecuteRequest(t *testing.T, method, url string, body any, tgID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if tgID != "" {
		req.Header.Set("X-Telegram-ID", tgID)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return w, resp
}

// data extracts the data object from a wrapped JSON response
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return d
}
