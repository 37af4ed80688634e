package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

type fakeSessions struct {
	mu     sync.Mutex
	values map[string]map[string]string
	err    error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{values: make(map[string]map[string]string)}
}

func (f *fakeSessions) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[sessionID][key]
	return v, ok, nil
}

func (f *fakeSessions) Put(ctx context.Context, sessionID, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.values[sessionID] == nil {
		f.values[sessionID] = make(map[string]string)
	}
	f.values[sessionID][key] = value
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, sessionID string, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, k := range keys {
		delete(f.values[sessionID], k)
	}
	return nil
}

func (f *fakeSessions) Ping(ctx context.Context) error {
	return f.err
}

func (f *fakeSessions) get(sessionID, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[sessionID][key]
	return v, ok
}

const testSessionID = "7f8a3c2e-4b1d-4e9a-8c3f-2d1e0b9a8c7f"

var errStoreDown = errors.New("store down")

// doRequest sends req with the test session cookie attached.
func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: testSessionID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
