package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centrosocial/centro-api/pkg/domain"
	"github.com/centrosocial/centro-api/pkg/events"
	"github.com/centrosocial/centro-api/pkg/telegram"
)

// fakeNotifier records sent messages and can be told to fail
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Send(ctx context.Context, text string) (*telegram.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, text)
	receipt := &telegram.Receipt{OK: true}
	receipt.Result.MessageID = 1
	return receipt, nil
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	copy(out, f.messages)
	return out
}

// testFixture wires a handler to a router with fake collaborators
type testFixture struct {
	storage  *MockStorageEngine
	notifier *fakeNotifier
	bus      events.Bus
	router   *mux.Router
}

func newTestFixture() *testFixture {
	f := &testFixture{
		storage:  NewMockStorageEngine(),
		notifier: &fakeNotifier{},
		bus:      events.New(),
		router:   mux.NewRouter(),
	}
	NewHandler(f.storage, f.notifier, f.bus).RegisterRoutes(f.router)
	return f
}

func (f *testFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

var createdMessageRe = regexp.MustCompile(`^Registro CREADO CORRECTAMENTE - id: [0-9a-f]{24}$`)

func TestHandler_Create(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "POST", "/usuarios", map[string]interface{}{"nombre": "Ana"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, createdMessageRe, decodeMessage(t, w))
	assert.Equal(t, 1, f.storage.GetInsertCalls())
	assert.Equal(t, 1, f.storage.GetCollectionCount(CollectionUsuarios))

	// Create has no side effects
	assert.Empty(t, f.notifier.sent())
}

func TestHandler_Create_MalformedBody(t *testing.T) {
	f := newTestFixture()

	req := httptest.NewRequest("POST", "/grupos", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, QueryErrorMessage, decodeMessage(t, w))
}

func TestHandler_Create_StoreFailure(t *testing.T) {
	f := newTestFixture()
	f.storage.FailWith(errors.New("disk on fire"))

	w := f.do(t, "POST", "/usuarios", map[string]interface{}{"nombre": "Ana"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, QueryErrorMessage, decodeMessage(t, w))
	// Internal detail must not leak into the response
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestHandler_ReadAll(t *testing.T) {
	f := newTestFixture()
	f.storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Ana"})
	f.storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Bob"})

	eventCh, unsub := f.bus.Subscribe(4)
	defer unsub()

	w := f.do(t, "GET", "/usuarios", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var docs []domain.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)

	// The read emits the query event with the result payload
	select {
	case e := <-eventCh:
		assert.Equal(t, events.QueryPerformed, e.Name)
		data, ok := e.Data.(events.QueryData)
		require.True(t, ok)
		assert.Equal(t, CollectionUsuarios, data.Collection)
		assert.NotNil(t, data.Result)
	case <-time.After(time.Second):
		t.Fatal("read did not publish the query event")
	}

	// ... and the direct chat notification naming the collection
	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Consulta de Usuarios")
}

func TestHandler_ReadAll_EmptyCollection(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "GET", "/grupos", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Consulta de Grupos")
}

func TestHandler_ReadByID(t *testing.T) {
	f := newTestFixture()
	id := f.storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Ana"})

	w := f.do(t, "GET", "/usuarios/"+id, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Ana", doc["nombre"])
	assert.Equal(t, id, doc["_id"])
}

func TestHandler_ReadByID_AbsentDocumentReadsAsNull(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "GET", "/usuarios/"+domain.NewObjectID(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "null", w.Body.String())

	// An absent document is still a successful read: side effects fire
	assert.Len(t, f.notifier.sent(), 1)
}

func TestHandler_ReadByID_MalformedIdentifier(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "GET", "/usuarios/not-a-valid-id", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"ERROR - No se encontraron documentos que coincidan con la consulta"}`, w.Body.String())

	// A failed read must not fire side effects
	assert.Empty(t, f.notifier.sent())
	assert.Equal(t, 0, f.storage.GetFindCalls())
}

func TestHandler_Read_NotificationFailureDoesNotMaskResponse(t *testing.T) {
	f := newTestFixture()
	f.notifier.err = errors.New("telegram down")
	f.storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Ana"})

	w := f.do(t, "GET", "/usuarios", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var docs []domain.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 1)
}

func TestHandler_Update(t *testing.T) {
	f := newTestFixture()
	id := f.storage.Seed(CollectionGrupos, domain.Document{"nombre": "Ajedrez", "activo": true})

	w := f.do(t, "PUT", "/grupos/"+id, map[string]interface{}{"activo": false})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registro ACTUALIZADO CORRECTAMENTE", decodeMessage(t, w))
	assert.Equal(t, 1, f.storage.GetUpdateCalls())

	// Partial merge: the untouched field survives
	r := f.do(t, "GET", "/grupos/"+id, nil)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &doc))
	assert.Equal(t, "Ajedrez", doc["nombre"])
	assert.Equal(t, false, doc["activo"])
}

func TestHandler_Update_ZeroMatchesIsSuccess(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "PUT", "/grupos/"+domain.NewObjectID(), map[string]interface{}{"activo": false})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registro ACTUALIZADO CORRECTAMENTE", decodeMessage(t, w))
}

func TestHandler_Update_MalformedIdentifier(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "PUT", "/grupos/nope", map[string]interface{}{"activo": false})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, QueryErrorMessage, decodeMessage(t, w))
	assert.Equal(t, 0, f.storage.GetUpdateCalls())
}

func TestHandler_Delete(t *testing.T) {
	f := newTestFixture()
	id := f.storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Ana"})

	w := f.do(t, "DELETE", "/usuarios/"+id, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registro BORRADO CORRECTAMENTE", decodeMessage(t, w))
	assert.Equal(t, 0, f.storage.GetCollectionCount(CollectionUsuarios))

	// Deleting the same id again still succeeds with zero matches
	w = f.do(t, "DELETE", "/usuarios/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Delete_MalformedIdentifier(t *testing.T) {
	f := newTestFixture()

	w := f.do(t, "DELETE", "/usuarios/12345", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, QueryErrorMessage, decodeMessage(t, w))
	assert.Equal(t, 0, f.storage.GetDeleteCalls())
}

func TestHandler_Dispatch_UnknownOperation(t *testing.T) {
	f := newTestFixture()
	handler := NewHandler(f.storage, f.notifier, f.bus)

	req := httptest.NewRequest("GET", "/usuarios", nil)
	w := httptest.NewRecorder()
	handler.Dispatch(w, req, Operation(99), CollectionUsuarios)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, QueryErrorMessage, decodeMessage(t, w))
}

func TestMockStorageEngine_ConcurrentFindsAndCounters(t *testing.T) {
	storage := NewMockStorageEngine()
	id := storage.Seed(CollectionUsuarios, domain.Document{"nombre": "Ana"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = storage.FindByID(CollectionUsuarios, id)
				_, _ = storage.FindAll(CollectionUsuarios)
				_ = storage.GetFindCalls()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, storage.GetFindCalls())
}
