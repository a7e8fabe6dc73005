package rest_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cmdhandlers "docstore-backend/application/commands/handlers"
	"docstore-backend/application/ports"
	queryhandlers "docstore-backend/application/queries/handlers"
	"docstore-backend/domain/document"
	"docstore-backend/infrastructure/messaging"
	"docstore-backend/infrastructure/persistence"
	"docstore-backend/infrastructure/persistence/memory"
	"docstore-backend/interfaces/http/rest"
	"docstore-backend/interfaces/http/rest/handlers"
	"docstore-backend/pkg/observability"
	"docstore-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNamespace = ports.Namespace{Database: "testDb2", Container: "itemsTest"}

type testServer struct {
	*httptest.Server
	store *memory.Store
}

func newRouter(opener ports.ClientOpener, metrics *observability.Collector) http.Handler {
	logger := zap.NewNop()
	publisher := messaging.NoopPublisher{}

	documents := handlers.NewDocumentHandler(
		cmdhandlers.NewCreateDocumentHandler(logger),
		cmdhandlers.NewUpsertDocumentHandler(opener, publisher, logger),
		cmdhandlers.NewDeleteDocumentHandler(opener, publisher, logger),
		queryhandlers.NewGetDocumentHandler(opener, logger),
		queryhandlers.NewSearchDocumentsHandler(opener, "", logger),
		logger,
	)
	return rest.NewRouter(
		documents,
		handlers.NewDiagnosticsHandler(logger),
		opener,
		metrics,
		rest.RouterOptions{EnableMetrics: true, EnableCORS: true},
		logger,
	).Setup()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore(persistence.NewNamespaceRef(testNamespace))
	srv := httptest.NewServer(newRouter(store, observability.NewCollector("docstore")))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

// write posts an upsert for a document the store has not seen yet. A first
// write is answered with an empty body.
func (s *testServer) write(t *testing.T, body string) {
	t.Helper()
	status, text := s.do(t, http.MethodPost, "/api/Upsert", body)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, text)
}

// replace posts an upsert for an existing document and decodes the
// acknowledged resource.
func (s *testServer) replace(t *testing.T, body string) document.Record {
	t.Helper()
	status, text := s.do(t, http.MethodPost, "/api/Upsert", body)
	require.Equal(t, http.StatusOK, status)
	require.True(t, strings.HasPrefix(text, cmdhandlers.UpsertSuccessPrefix), text)

	var stored document.Record
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(text, cmdhandlers.UpsertSuccessPrefix)), &stored))
	return stored
}

func (s *testServer) read(t *testing.T, id string) document.Record {
	t.Helper()
	status, body := s.do(t, http.MethodGet, "/api/QueryById?id="+id, "")
	require.Equal(t, http.StatusOK, status)

	var stored document.Record
	require.NoError(t, json.Unmarshal([]byte(body), &stored))
	return stored
}

func TestRouter_DocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	before := time.Now().Add(-time.Second)

	srv.write(t, `{"id":"doc-1","message":"hello world"}`)

	stored := srv.read(t, "doc-1")
	assert.Equal(t, "hello world", stored.Message)
	require.NotNil(t, stored.CreationTimestamp)
	assert.True(t, stored.CreationTimestamp.After(before))

	replaced := srv.replace(t, `{"id":"doc-1","message":"hello again"}`)
	assert.Equal(t, "doc-1", replaced.ID)
	assert.Equal(t, "hello again", replaced.Message)

	status, body := srv.do(t, http.MethodDelete, "/api/Delete?id=doc-1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Delete successful", body)

	status, body = srv.do(t, http.MethodGet, "/api/QueryById?id=doc-1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)

	status, body = srv.do(t, http.MethodDelete, "/api/Delete?id=doc-1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)

	assert.Equal(t, srv.store.Opens(), srv.store.Closes())
}

func TestRouter_UpsertRules(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Should generate an id and stamp a missing timestamp", func(t *testing.T) {
		srv.write(t, `{"message":"no identity"}`)

		status, body := srv.do(t, http.MethodGet, "/api/QueryByMessage?message=no+identity", "")
		require.Equal(t, http.StatusOK, status)

		var found []document.Record
		require.NoError(t, json.Unmarshal([]byte(body), &found))
		require.Len(t, found, 1)
		assert.NotEmpty(t, found[0].ID)
		assert.NotNil(t, found[0].CreationTimestamp)
	})

	t.Run("Should keep a caller id and replace in place", func(t *testing.T) {
		srv.write(t, `{"id":"fixed","message":"v1"}`)
		second := srv.replace(t, `{"id":"fixed","message":"v2"}`)

		assert.Equal(t, "fixed", second.ID)
		assert.Equal(t, "v2", srv.read(t, "fixed").Message)
	})

	t.Run("Should overwrite a supplied timestamp with now", func(t *testing.T) {
		srv.write(t, `{"id":"ts","message":"m"}`)

		before := time.Now().Add(-time.Second)
		stored := srv.replace(t, `{"id":"ts","message":"m","creationTimestamp":"2001-01-01T00:00:00Z"}`)

		require.NotNil(t, stored.CreationTimestamp)
		assert.True(t, stored.CreationTimestamp.After(before))
	})

	for name, sentinel := range map[string]string{
		"with offset": "0001-01-01T00:00:00Z",
		"zone-less":   "0001-01-01T00:00:00",
	} {
		t.Run("Should leave a default timestamp as sent "+name, func(t *testing.T) {
			id := "zero-" + strings.ReplaceAll(name, " ", "-")
			srv.write(t, `{"id":"`+id+`","message":"m"}`)

			stored := srv.replace(t, `{"id":"`+id+`","message":"m","creationTimestamp":"`+sentinel+`"}`)

			require.NotNil(t, stored.CreationTimestamp)
			assert.True(t, stored.CreationTimestamp.IsZero())
		})
	}

	t.Run("Should reject an unparseable body", func(t *testing.T) {
		status, body := srv.do(t, http.MethodPost, "/api/Upsert", "not json")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Empty(t, body)
	})
}

func TestRouter_CreateDoesNotPersist(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, http.MethodPost, "/api/Create", `{"message":"ephemeral","creationTimestamp":"2024-05-01T10:00:00"}`)
	require.Equal(t, http.StatusOK, status)

	var created document.Record
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.CreationTimestamp)

	status, _ = srv.do(t, http.MethodGet, "/api/QueryById?id="+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, 0, srv.store.Len(testNamespace))
}

func TestRouter_Search(t *testing.T) {
	srv := newTestServer(t)
	srv.write(t, `{"id":"1","message":"foo"}`)
	srv.write(t, `{"id":"2","message":"xfoox"}`)
	srv.write(t, `{"id":"3","message":"FOO"}`)

	status, body := srv.do(t, http.MethodGet, "/api/QueryByMessage?message=foo", "")
	require.Equal(t, http.StatusOK, status)

	var found []document.Record
	require.NoError(t, json.Unmarshal([]byte(body), &found))
	ids := make([]string, 0, len(found))
	for _, r := range found {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"1", "2"}, ids)

	status, body = srv.do(t, http.MethodGet, "/api/QueryByMessage?message=absent", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)
}

func TestRouter_MissingInputNeverOpensStore(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/QueryById", "/api/QueryByMessage"} {
		status, body := srv.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusInternalServerError, status, path)
		assert.Empty(t, body, path)
	}
	status, _ := srv.do(t, http.MethodDelete, "/api/Delete", "")
	assert.Equal(t, http.StatusInternalServerError, status)

	assert.EqualValues(t, 0, srv.store.Opens())
}

func TestRouter_Diagnostics(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, http.MethodGet, "/api/JustReturnTest", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Just return", body)

	status, body = srv.do(t, http.MethodPost, "/api/Test", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "You submitted name: Ada.")

	status, body = srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, body)

	status, body = srv.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ready"}`, body)

	status, body = srv.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "docstore_http_requests_total")
}

func TestRouter_ReadinessFailure(t *testing.T) {
	opener := new(mocks.MockClientOpener)
	opener.On("Open", mock.Anything).Return(nil, errors.New("no credentials"))
	srv := httptest.NewServer(newRouter(opener, nil))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, http.MethodGet, "/api/Upsert", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}
