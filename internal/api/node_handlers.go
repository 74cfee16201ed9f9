package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"fileflow/internal/database"
	"fileflow/internal/filetree"
	"fileflow/internal/models"
	"fileflow/internal/websocket"

	"github.com/go-chi/chi/v5"
)

type ListingResponse struct {
	Folder *models.Node  `json:"folder,omitempty"`
	Path   []models.Node `json:"path"`
	Nodes  []models.Node `json:"nodes"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func optionalID(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// @Summary      List root level
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListingResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard [get]
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	nodes, err := s.tree.ListChildren(r.Context(), s.store, claims.UserID, nil)
	if err != nil {
		s.writeTreeError(w, r, err, "list nodes")
		return
	}

	writeJSON(w, http.StatusOK, ListingResponse{Path: []models.Node{}, Nodes: nodes})
}

// @Summary      List a folder
// @Description  Lists the folder's children together with the path from the root down to it.
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId  path      string  true  "Folder ID"
// @Success      200     {object}  ListingResponse
// @Failure      400     {object}  ErrorResponse "Node is a file"
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /folder/{nodeId} [get]
func (s *Server) FolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	nodes, err := s.tree.ListChildren(r.Context(), s.store, claims.UserID, &nodeID)
	if err != nil {
		s.writeTreeError(w, r, err, "list folder")
		return
	}

	folder, err := s.tree.GetNode(r.Context(), s.store, claims.UserID, nodeID)
	if err != nil {
		s.writeTreeError(w, r, err, "list folder")
		return
	}

	path, err := s.tree.ResolveAncestorPath(r.Context(), s.store, nodeID)
	if err != nil {
		s.writeTreeError(w, r, err, "resolve folder path")
		return
	}

	writeJSON(w, http.StatusOK, ListingResponse{Folder: folder, Path: path, Nodes: nodes})
}

// @Summary      Upload a file
// @Tags         nodes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file       formData  file    true   "File contents"
// @Param        folder_id  formData  string  false  "Target folder, root when empty"
// @Success      201        {object}  models.Node
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      413        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Router       /upload [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "error parsing multipart form")
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	sizeBytes := handler.Size
	params := filetree.CreateFileParams{
		Name:     filepath.Base(handler.Filename),
		ParentID: optionalID(r.FormValue("folder_id")),
		Data:     file,
		Size:     &sizeBytes,
	}
	if mimeType := handler.Header.Get("Content-Type"); mimeType != "" {
		params.MimeType = &mimeType
	}

	var node *models.Node
	err = s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		node, err = s.tree.CreateFile(r.Context(), q, claims.UserID, params)
		return err
	})
	if err != nil {
		s.writeTreeError(w, r, err, "upload file")
		return
	}

	s.wsHub.PublishEvent(r.Context(), claims.UserID, websocket.NewNodeEvent(websocket.EventNodeCreated, node))
	writeJSON(w, http.StatusCreated, node)
}

// @Summary      Create a folder
// @Tags         nodes
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        folder_name       formData  string  true   "Folder name"
// @Param        parent_folder_id  formData  string  false  "Parent folder, root when empty"
// @Success      201               {object}  models.Node
// @Failure      400               {object}  ErrorResponse
// @Failure      403               {object}  ErrorResponse
// @Failure      404               {object}  ErrorResponse
// @Failure      500               {object}  ErrorResponse
// @Router       /create_folder [post]
func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	name := r.FormValue("folder_name")
	parentID := optionalID(r.FormValue("parent_folder_id"))

	var node *models.Node
	err := s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		node, err = s.tree.CreateFolder(r.Context(), q, claims.UserID, name, parentID)
		return err
	})
	if err != nil {
		s.writeTreeError(w, r, err, "create folder")
		return
	}

	s.wsHub.PublishEvent(r.Context(), claims.UserID, websocket.NewNodeEvent(websocket.EventNodeCreated, node))
	writeJSON(w, http.StatusCreated, node)
}

// @Summary      Download a file
// @Tags         nodes
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        nodeId  path  string  true  "File ID"
// @Success      200     {file}    binary
// @Failure      400     {object}  ErrorResponse "Node is a folder"
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /download_file/{nodeId} [get]
func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "attachment")
}

// @Summary      View a file inline
// @Tags         nodes
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        nodeId  path  string  true  "File ID"
// @Success      200     {file}    binary
// @Failure      400     {object}  ErrorResponse "Node is a folder"
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /view_file/{nodeId} [get]
func (s *Server) ViewFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "inline")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	content, err := s.tree.ReadFileBytes(r.Context(), s.store, claims.UserID, nodeID)
	if err != nil {
		s.writeTreeError(w, r, err, "read file")
		return
	}
	defer content.Body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(content.Name))
	if content.MimeType != nil && *content.MimeType != "" {
		contentType = *content.MimeType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": content.Name}))
	if content.Size != nil {
		w.Header().Set("Content-Length", strconv.FormatInt(*content.Size, 10))
	}

	if _, err := io.Copy(w, content.Body); err != nil {
		s.log.Warn(r.Context(), "failed to stream file", "node_id", nodeID, "error", err)
	}
}

// @Summary      Delete a file or folder
// @Description  Deletes the node. Folders are deleted together with everything beneath them.
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId  path      string  true  "Node ID"
// @Success      200     {object}  MessageResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /delete_file/{nodeId} [delete]
func (s *Server) DeleteNodeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	var (
		node *models.Node
		res  *filetree.DeleteResult
	)
	err := s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		node, err = s.tree.GetNode(r.Context(), q, claims.UserID, nodeID)
		if err != nil {
			return err
		}
		res, err = s.tree.DeleteNode(r.Context(), q, claims.UserID, nodeID)
		return err
	})
	if err != nil {
		s.writeTreeError(w, r, err, "delete node")
		return
	}

	s.metrics.nodesDeleted.Add(float64(res.Nodes))
	s.metrics.blobDeleteFailures.Add(float64(res.BlobFailures))
	s.wsHub.PublishEvent(r.Context(), claims.UserID, websocket.NewNodeEvent(websocket.EventNodeDeleted, node))
	writeJSON(w, http.StatusOK, MessageResponse{Message: node.Name + " deleted"})
}

type RenameNodeRequest struct {
	NewName string `json:"new_name" example:"report.pdf"`
}

type MoveNodeRequest struct {
	DestinationFolderID *string `json:"destination_folder_id" example:"V1StGXR8_Z5jdHi6B-myT"`
}

// @Summary      Rename a file or folder
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId             path      string             true  "Node ID"
// @Param        renameNodeRequest  body      RenameNodeRequest  true  "New name"
// @Success      200                {object}  models.Node
// @Failure      400                {object}  ErrorResponse
// @Failure      403                {object}  ErrorResponse
// @Failure      404                {object}  ErrorResponse
// @Router       /rename_file/{nodeId} [post]
func (s *Server) RenameNodeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	var req RenameNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var node *models.Node
	err := s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		node, err = s.tree.RenameNode(r.Context(), q, claims.UserID, nodeID, req.NewName)
		return err
	})
	if err != nil {
		s.writeTreeError(w, r, err, "rename node")
		return
	}

	s.wsHub.PublishEvent(r.Context(), claims.UserID, websocket.NewNodeEvent(websocket.EventNodeUpdated, node))
	writeJSON(w, http.StatusOK, node)
}

// @Summary      Move a file or folder
// @Description  Moves the node into another folder, or to the root when destination_folder_id is null or empty. A folder cannot be moved into its own subtree.
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId           path      string           true  "Node ID"
// @Param        moveNodeRequest  body      MoveNodeRequest  true  "Destination"
// @Success      200              {object}  models.Node
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Failure      404              {object}  ErrorResponse
// @Router       /move_file/{nodeId} [post]
func (s *Server) MoveNodeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	var req MoveNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var destination *string
	if req.DestinationFolderID != nil {
		destination = optionalID(*req.DestinationFolderID)
	}

	var node *models.Node
	err := s.store.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		node, err = s.tree.MoveNode(r.Context(), q, claims.UserID, nodeID, destination)
		return err
	})
	if err != nil {
		s.writeTreeError(w, r, err, "move node")
		return
	}

	s.wsHub.PublishEvent(r.Context(), claims.UserID, websocket.NewNodeEvent(websocket.EventNodeUpdated, node))
	writeJSON(w, http.StatusOK, node)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Error(r.Context(), "health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
