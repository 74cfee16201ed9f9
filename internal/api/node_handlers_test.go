package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fileflow/internal/models"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createFolder(t *testing.T, token, name, parentID string) models.Node {
	t.Helper()
	rr := e.do(t, folderRequest(name, parentID), token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Node](t, rr)
}

func (e *testEnv) upload(t *testing.T, token, filename, content, folderID string) models.Node {
	t.Helper()
	rr := e.do(t, uploadRequest(t, filename, content, folderID), token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Node](t, rr)
}

func nodeNames(nodes []models.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestDashboard_Ordering(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	env.upload(t, token, "zeta", "z", "")
	env.createFolder(t, token, "Alpha", "")
	env.upload(t, token, "beta", "b", "")

	rr := env.do(t, httptest.NewRequest("GET", "/dashboard", nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	listing := decode[ListingResponse](t, rr)
	require.Equal(t, []string{"Alpha", "beta", "zeta"}, nodeNames(listing.Nodes))
	require.Empty(t, listing.Path)
}

func TestFolder_ListingAndPath(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	a := env.createFolder(t, token, "A", "")
	b := env.createFolder(t, token, "B", a.ID)
	env.upload(t, token, "f.txt", "hello", b.ID)

	rr := env.do(t, httptest.NewRequest("GET", "/folder/"+b.ID, nil), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	listing := decode[ListingResponse](t, rr)
	require.Equal(t, b.ID, listing.Folder.ID)
	require.Equal(t, []string{"A", "B"}, nodeNames(listing.Path))
	require.Equal(t, []string{"f.txt"}, nodeNames(listing.Nodes))
}

func TestFolder_Errors(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")

	docs := env.createFolder(t, alice, "Docs", "")
	file := env.upload(t, alice, "a.txt", "hello", "")

	rr := env.do(t, httptest.NewRequest("GET", "/folder/"+file.ID, nil), alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/folder/"+docs.ID, nil), bob)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/folder/doesnotexist000000000", nil), alice)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.NotEmpty(t, decode[ErrorResponse](t, rr).Error)
}

func TestCreateFolder_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")
	docs := env.createFolder(t, alice, "Docs", "")

	rr := env.do(t, folderRequest("   ", ""), alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, folderRequest("Sub", docs.ID), bob)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, folderRequest("Sub", "doesnotexist000000000"), alice)
	require.Equal(t, http.StatusNotFound, rr.Code)

	// Sibling names may repeat.
	first := env.createFolder(t, alice, "Sub", docs.ID)
	second := env.createFolder(t, alice, "Sub", docs.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, docs.ID, *first.ParentID)
}

func TestUpload_DownloadAndView(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	node := env.upload(t, token, "a.txt", "hello", "")
	require.False(t, node.IsFolder)
	require.NotNil(t, node.SizeBytes)
	require.Equal(t, int64(5), *node.SizeBytes)

	rr := env.do(t, httptest.NewRequest("GET", "/download_file/"+node.ID, nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "hello", rr.Body.String())
	require.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"), "attachment"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "a.txt")

	rr = env.do(t, httptest.NewRequest("GET", "/view_file/"+node.ID, nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "hello", rr.Body.String())
	require.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"), "inline"))
}

func TestUpload_Errors(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")
	file := env.upload(t, token, "a.txt", "hello", "")

	req := httptest.NewRequest("POST", "/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rr := env.do(t, req, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, uploadRequest(t, "b.txt", "x", file.ID), token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, uploadRequest(t, "b.txt", "x", "doesnotexist000000000"), token)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, uploadRequest(t, "big.bin", strings.Repeat("x", 2<<20), ""), token)
	require.NotEqual(t, http.StatusCreated, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/dashboard", nil), token)
	require.Equal(t, []string{"a.txt"}, nodeNames(decode[ListingResponse](t, rr).Nodes))
}

func TestDownload_Errors(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")

	docs := env.createFolder(t, alice, "Docs", "")
	file := env.upload(t, alice, "a.txt", "hello", docs.ID)

	rr := env.do(t, httptest.NewRequest("GET", "/download_file/"+docs.ID, nil), alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/download_file/"+file.ID, nil), bob)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/view_file/doesnotexist000000000", nil), alice)
	require.Equal(t, http.StatusNotFound, rr.Code)

	stored, err := env.store.GetNodeByID(context.Background(), file.ID)
	require.NoError(t, err)
	require.NoError(t, env.blobs.Delete(context.Background(), stored.StorageKey))

	rr = env.do(t, httptest.NewRequest("GET", "/download_file/"+file.ID, nil), alice)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDelete_FolderRecursive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.registerAndLogin(t, "alice")

	docs := env.createFolder(t, token, "Docs", "")
	file := env.upload(t, token, "a.txt", "hello", docs.ID)
	stored, err := env.store.GetNodeByID(ctx, file.ID)
	require.NoError(t, err)

	rr := env.do(t, httptest.NewRequest("DELETE", "/delete_file/"+docs.ID, nil), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotEmpty(t, decode[MessageResponse](t, rr).Message)

	for _, id := range []string{docs.ID, file.ID} {
		n, err := env.store.GetNodeByID(ctx, id)
		require.NoError(t, err)
		require.Nil(t, n)
	}
	exists, err := env.blobs.Exists(ctx, stored.StorageKey)
	require.NoError(t, err)
	require.False(t, exists)

	rr = env.do(t, httptest.NewRequest("DELETE", "/delete_file/"+docs.ID, nil), token)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/dashboard", nil), token)
	require.Empty(t, decode[ListingResponse](t, rr).Nodes)
}

func TestDelete_OtherOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")
	file := env.upload(t, alice, "a.txt", "hello", "")

	rr := env.do(t, httptest.NewRequest("DELETE", "/delete_file/"+file.ID, nil), bob)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/download_file/"+file.ID, nil), alice)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestWebsocket_ReceivesEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.server.wsHub.Run(ctx)

	ts := httptest.NewServer(env.router)
	t.Cleanup(ts.Close)

	token := env.registerAndLogin(t, "alice")
	claims := decode[struct {
		UserID int64 `json:"user_id"`
	}](t, env.do(t, httptest.NewRequest("GET", "/me", nil), token))

	rr := env.do(t, httptest.NewRequest("GET", "/ws", nil), "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + token
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return env.server.wsHub.ClientCount(claims.UserID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	folder := env.createFolder(t, token, "Docs", "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type   string `json:"type"`
		NodeID string `json:"node_id"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "node_created", event.Type)
	require.Equal(t, folder.ID, event.NodeID)
}

func TestRenameNode(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerAndLogin(t, "alice")
	bob := env.registerAndLogin(t, "bob")
	file := env.upload(t, alice, "old.txt", "hello", "")

	rr := env.do(t, jsonRequest("POST", "/rename_file/"+file.ID, RenameNodeRequest{NewName: "new.txt"}), alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "new.txt", decode[models.Node](t, rr).Name)

	rr = env.do(t, jsonRequest("POST", "/rename_file/"+file.ID, RenameNodeRequest{NewName: ""}), alice)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, jsonRequest("POST", "/rename_file/"+file.ID, RenameNodeRequest{NewName: "x"}), bob)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, httptest.NewRequest("GET", "/download_file/"+file.ID, nil), alice)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Disposition"), "new.txt")
}

func TestMoveNode(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	a := env.createFolder(t, token, "A", "")
	b := env.createFolder(t, token, "B", a.ID)
	file := env.upload(t, token, "f.txt", "x", "")

	rr := env.do(t, jsonRequest("POST", "/move_file/"+file.ID, MoveNodeRequest{DestinationFolderID: &b.ID}), token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, b.ID, *decode[models.Node](t, rr).ParentID)

	rr = env.do(t, httptest.NewRequest("GET", "/folder/"+b.ID, nil), token)
	require.Equal(t, []string{"f.txt"}, nodeNames(decode[ListingResponse](t, rr).Nodes))

	rr = env.do(t, jsonRequest("POST", "/move_file/"+a.ID, MoveNodeRequest{DestinationFolderID: &b.ID}), token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, jsonRequest("POST", "/move_file/"+file.ID, MoveNodeRequest{}), token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, decode[models.Node](t, rr).ParentID)

	rr = env.do(t, httptest.NewRequest("GET", "/dashboard", nil), token)
	require.Equal(t, []string{"A", "f.txt"}, nodeNames(decode[ListingResponse](t, rr).Nodes))
}
