package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/uniconnect/internal/config"
	"github.com/markdave123-py/uniconnect/internal/core/memstore"
	objectclient "github.com/markdave123-py/uniconnect/internal/core/object-client"
	"github.com/markdave123-py/uniconnect/internal/models"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	store  *memstore.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{
		Port:           "0",
		StoreDriver:    config.StoreMemory,
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxUploadBytes: 1 << 20,
	}
	store := memstore.New()
	return &testAPI{t: t, router: NewRouter(cfg, store, objectclient.NewPlaceholderClient()), store: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers and logs in a user, returning its token and id.
func (a *testAPI) signup(name, email, department string) (token, id string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": name, "email": email, "password": "pass1234", "department": department,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": email, "password": "pass1234"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	token = decode[map[string]string](a.t, rec)["token"]

	rec = a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(a.t, http.StatusOK, rec.Code)
	id = decode[map[string]any](a.t, rec)["id"].(string)
	return token, id
}

func TestRegisterLoginAndProfile(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "Ada Lovelace", "email": "ada@uni.edu", "password": "pass1234", "department": "Mathematics",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"msg":"User registered successfully"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "Ada Again", "email": "ADA@uni.edu", "password": "x", "department": "Physics",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"User already exists"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/users/register", "", map[string]string{"email": "new@uni.edu"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fullName")

	rec = api.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@uni.edu", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"Invalid credentials"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@uni.edu", "password": "pass1234"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]string](t, rec)["token"]

	rec = api.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "Ada Lovelace", me["fullName"])
	assert.Equal(t, "Mathematics", me["department"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodPut, "/api/users/me", token, map[string]string{"bio": "Poet of numbers"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Poet of numbers", decode[map[string]any](t, rec)["bio"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"No token, authorization denied"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/notes", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"Token is not valid"}`, rec.Body.String())
}

func TestEmptyListsAreArrays(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Ada", "ada@uni.edu", "CSE")

	for _, path := range []string{
		"/api/notes", "/api/projects", "/api/listings", "/api/events", "/api/lost-items",
		"/api/messages/Public", "/api/conversations/notifications", "/api/lost-item-conversations/notifications",
	} {
		rec := api.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), path)
	}
}

func TestNotesCreateAndList(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.signup("Ada", "ada@uni.edu", "CSE")

	rec := api.do(http.MethodPost, "/api/notes", token, map[string]string{"title": "Algorithms", "department": "CSE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fileUrl")

	for _, title := range []string{"First", "Second"} {
		rec = api.do(http.MethodPost, "/api/notes", token, map[string]string{
			"title": title, "department": "CSE", "fileUrl": "https://files.test/" + title,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = api.do(http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]map[string]any](t, rec)
	require.Len(t, notes, 2)
	assert.Equal(t, "Second", notes[0]["title"])
	assert.Equal(t, id, notes[0]["userId"])
	assert.Equal(t, "Ada", notes[0]["user"].(map[string]any)["fullName"])
}

func TestListingRequiresPrice(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Sam", "sam@uni.edu", "CSE")

	rec := api.do(http.MethodPost, "/api/listings", token, map[string]any{"title": "Lamp", "description": "Bright"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price")

	rec = api.do(http.MethodGet, "/api/listings", token, nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = api.do(http.MethodPost, "/api/listings", token, map[string]any{
		"title": "Lamp", "description": "Bright", "price": 300, "isNegotiable": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	listing := decode[map[string]any](t, rec)
	assert.Equal(t, "300", listing["price"])
	assert.Equal(t, []any{}, listing["imageUrls"])
}

func TestProjectReviews(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, _ := api.signup("Olive Owner", "olive@uni.edu", "EEE")
	reviewerToken, reviewerID := api.signup("Rita Reviewer", "rita@uni.edu", "CSE")

	rec := api.do(http.MethodPost, "/api/projects", ownerToken, map[string]any{
		"title": "Rover", "description": "Mars rover model", "department": "EEE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	projectID := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/api/projects/review/"+projectID, ownerToken, map[string]string{"text": "Great"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"You cannot review your own project."}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/projects/review/missing", reviewerToken, map[string]string{"text": "Great"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/projects/review/"+projectID, reviewerToken, map[string]string{"text": "Impressive wheels"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	project := decode[map[string]any](t, rec)
	reviews := project["reviews"].([]any)
	require.Len(t, reviews, 1)
	first := reviews[0].(map[string]any)
	assert.Equal(t, "Impressive wheels", first["text"])
	assert.Equal(t, reviewerID, first["userId"])
	assert.Equal(t, "Rita Reviewer", first["user"].(map[string]any)["fullName"])
	assert.Equal(t, "Olive Owner", project["user"].(map[string]any)["fullName"])
}

func TestMessagesByRoom(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Ada", "ada@uni.edu", "CSE")

	for _, m := range []map[string]string{
		{"text": "hello all", "room": models.PublicRoom},
		{"text": "cse only", "room": "CSE"},
		{"text": "again", "room": models.PublicRoom},
	} {
		rec := api.do(http.MethodPost, "/api/messages", token, m)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := api.do(http.MethodPost, "/api/messages", token, map[string]string{"text": "no room"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/messages/"+models.PublicRoom, token, nil)
	msgs := decode[[]map[string]any](t, rec)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello all", msgs[0]["text"])
	assert.Equal(t, "again", msgs[1]["text"])
}

func TestEventsAndLostItems(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Ada", "ada@uni.edu", "CSE")

	rec := api.do(http.MethodPost, "/api/events", token, map[string]any{
		"title": "Hackathon", "description": "24h", "date": "2025-05-01", "location": "Hall A",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2025-05-01T00:00:00Z", decode[map[string]any](t, rec)["date"])

	rec = api.do(http.MethodPost, "/api/events", token, map[string]any{
		"title": "Hackathon", "description": "24h", "date": "next week", "location": "Hall A",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/lost-items", token, map[string]any{
		"status": "Stolen", "itemName": "Umbrella", "description": "Blue", "location": "Library",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")

	rec = api.do(http.MethodPost, "/api/lost-items", token, map[string]any{
		"status": "Found", "itemName": "Umbrella", "description": "Blue", "location": "Library",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["isResolved"])

	rec = api.do(http.MethodGet, "/api/lost-items", token, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestListingConversationFlow(t *testing.T) {
	api := newTestAPI(t)
	sellerToken, sellerID := api.signup("Sam Seller", "sam@uni.edu", "CSE")
	buyerToken, buyerID := api.signup("Bea Buyer", "bea@uni.edu", "EEE")

	rec := api.do(http.MethodPost, "/api/listings", sellerToken, map[string]any{
		"title": "Desk lamp", "description": "Bright", "price": "300",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	listingID := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodGet, "/api/conversations/listing/"+listingID, buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = api.do(http.MethodPost, "/api/conversations", sellerToken, map[string]string{"listingId": listingID, "text": "Anyone?"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/conversations", buyerToken, map[string]string{"listingId": "missing", "text": "Hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Listing not found."}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/conversations", buyerToken, map[string]string{"listingId": listingID, "text": "Still available?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	thread := decode[map[string]any](t, rec)
	threadID := thread["id"].(string)
	assert.Equal(t, sellerID, thread["unreadBy"])
	participants := thread["participants"].([]any)
	require.Len(t, participants, 2)
	assert.Equal(t, "Sam Seller", participants[0].(map[string]any)["fullName"])

	rec = api.do(http.MethodGet, "/api/conversations/notifications", sellerToken, nil)
	notes := decode[[]map[string]any](t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, "Desk lamp", notes[0]["resource"].(map[string]any)["name"])

	rec = api.do(http.MethodGet, "/api/conversations/notifications", buyerToken, nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	// The buyer is not the unread target, so this is a no-op.
	rec = api.do(http.MethodPut, "/api/conversations/read/"+threadID, buyerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Conversation marked as read."}`, rec.Body.String())
	rec = api.do(http.MethodGet, "/api/conversations/notifications", sellerToken, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodPut, "/api/conversations/read/"+threadID, sellerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/api/conversations/notifications", sellerToken, nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = api.do(http.MethodPost, "/api/conversations", sellerToken, map[string]string{"listingId": listingID, "text": "Yes!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := decode[map[string]any](t, rec)
	assert.Equal(t, threadID, reply["id"])
	assert.Equal(t, buyerID, reply["unreadBy"])
	messages := reply["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "Sam Seller", messages[1].(map[string]any)["sender"].(map[string]any)["fullName"])

	rec = api.do(http.MethodPut, "/api/conversations/read/nope", sellerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLostItemConversationRoutes(t *testing.T) {
	api := newTestAPI(t)
	finderToken, _ := api.signup("Fay Finder", "fay@uni.edu", "CSE")
	ownerToken, _ := api.signup("Oli Owner", "oli@uni.edu", "EEE")

	rec := api.do(http.MethodPost, "/api/lost-items", finderToken, map[string]any{
		"status": "Found", "itemName": "Blue umbrella", "description": "By the door", "location": "Library",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/api/lost-item-conversations", ownerToken, map[string]string{"itemId": itemID, "text": "Mine!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/lost-item-conversations/item/"+itemID, finderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["messages"].([]any), 1)

	rec = api.do(http.MethodGet, "/api/lost-item-conversations/notifications", finderToken, nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	// Listing conversations are stored separately.
	rec = api.do(http.MethodGet, "/api/conversations/notifications", finderToken, nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = api.do(http.MethodPost, "/api/lost-item-conversations", ownerToken, map[string]string{"itemId": "missing", "text": "?"})
	assert.JSONEq(t, `{"msg":"Item not found."}`, rec.Body.String())
}

func TestOwnerOpensEachBuyersThread(t *testing.T) {
	api := newTestAPI(t)
	sellerToken, _ := api.signup("Sam Seller", "sam@uni.edu", "CSE")
	firstToken, firstID := api.signup("Bea Buyer", "bea@uni.edu", "CSE")
	secondToken, secondID := api.signup("Bob Buyer", "bob@uni.edu", "EEE")

	rec := api.do(http.MethodPost, "/api/listings", sellerToken, map[string]any{
		"title": "Desk lamp", "description": "Bright", "price": "300",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	listingID := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/api/conversations", firstToken, map[string]string{"listingId": listingID, "text": "From Bea"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	firstThread := decode[map[string]any](t, rec)["id"].(string)
	rec = api.do(http.MethodPost, "/api/conversations", secondToken, map[string]string{"listingId": listingID, "text": "From Bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The resource lookup shows the most recent thread.
	rec = api.do(http.MethodGet, "/api/conversations/listing/"+listingID, sellerToken, nil)
	assert.Equal(t, secondID, decode[map[string]any](t, rec)["contacterId"])

	rec = api.do(http.MethodGet, "/api/conversations/notifications", sellerToken, nil)
	require.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = api.do(http.MethodGet, "/api/conversations/"+firstThread, sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	opened := decode[map[string]any](t, rec)
	assert.Equal(t, firstID, opened["contacterId"])
	assert.Equal(t, "From Bea", opened["messages"].([]any)[0].(map[string]any)["text"])

	rec = api.do(http.MethodPost, "/api/conversations", sellerToken, map[string]string{
		"listingId": listingID, "recipientId": opened["contacterId"].(string), "text": "Hi Bea",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := decode[map[string]any](t, rec)
	assert.Equal(t, firstThread, reply["id"])
	assert.Equal(t, firstID, reply["unreadBy"])

	// Only participants can open a thread.
	rec = api.do(http.MethodGet, "/api/conversations/"+firstThread, secondToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Conversation not found."}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/lost-item-conversations/"+firstThread, sellerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendRejectsMistypedBody(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Bea Buyer", "bea@uni.edu", "CSE")

	rec := api.do(http.MethodPost, "/api/conversations", token, map[string]any{"listingId": 5, "text": "Hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg":"Invalid request body"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/lost-item-conversations", token, map[string]any{"itemId": "x", "text": true})
	assert.JSONEq(t, `{"msg":"Invalid request body"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/lost-item-conversations", token, map[string]any{"text": "Hi"})
	assert.JSONEq(t, `{"msg":"Item id is required."}`, rec.Body.String())
}

func TestUploadReturnsURL(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.signup("Ada", "ada@uni.edu", "CSE")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "lecture notes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["url"]
	assert.True(t, strings.HasPrefix(url, "https://placehold.co/"), url)
	assert.Contains(t, url, "lecture_notes")

	rec = api.do(http.MethodPost, "/api/uploads", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndFrontend(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UniConnect")

	require.NoError(t, api.store.Close())
	rec = api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"msg":"database unavailable"}`, rec.Body.String())
}
