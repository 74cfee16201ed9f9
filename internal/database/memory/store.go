// Package memory is an in-process database.Store. Nodes live in an arena
// keyed by id with parent links stored as optional ids. Transactions run on a
// copy of the arena which replaces the live one on commit.
//
// A single mutex covers the whole store and is held for the full ExecTx
// callback, blob I/O included, so transactions from all users run one at a
// time. It suits tests and single-user setups, not concurrent production load.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"fileflow/internal/database"
	"fileflow/internal/models"
)

type state struct {
	users      map[int64]models.User
	nodes      map[string]models.Node
	nextUserID int64
}

func newState() *state {
	return &state{
		users:      make(map[int64]models.User),
		nodes:      make(map[string]models.Node),
		nextUserID: 1,
	}
}

func (s *state) clone() *state {
	c := &state{
		users:      make(map[int64]models.User, len(s.users)),
		nodes:      make(map[string]models.Node, len(s.nodes)),
		nextUserID: s.nextUserID,
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, n := range s.nodes {
		c.nodes[id] = n
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ database.Store = (*Store)(nil)

func (s *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&Queries{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) do(fn func(q *Queries)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&Queries{st: s.st})
}

func (s *Store) CreateUser(ctx context.Context, arg database.CreateUserParams) (user *models.User, err error) {
	s.do(func(q *Queries) { user, err = q.CreateUser(ctx, arg) })
	return
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (user *models.User, err error) {
	s.do(func(q *Queries) { user, err = q.GetUserByID(ctx, id) })
	return
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user *models.User, err error) {
	s.do(func(q *Queries) { user, err = q.GetUserByUsername(ctx, username) })
	return
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user *models.User, err error) {
	s.do(func(q *Queries) { user, err = q.GetUserByEmail(ctx, email) })
	return
}

func (s *Store) CreateNode(ctx context.Context, arg database.CreateNodeParams) (node *models.Node, err error) {
	s.do(func(q *Queries) { node, err = q.CreateNode(ctx, arg) })
	return
}

func (s *Store) GetNodeByID(ctx context.Context, id string) (node *models.Node, err error) {
	s.do(func(q *Queries) { node, err = q.GetNodeByID(ctx, id) })
	return
}

func (s *Store) GetNodesByParentID(ctx context.Context, ownerID int64, parentID *string) (nodes []models.Node, err error) {
	s.do(func(q *Queries) { nodes, err = q.GetNodesByParentID(ctx, ownerID, parentID) })
	return
}

func (s *Store) GetChildren(ctx context.Context, parentID string) (nodes []models.Node, err error) {
	s.do(func(q *Queries) { nodes, err = q.GetChildren(ctx, parentID) })
	return
}

func (s *Store) RenameNode(ctx context.Context, id string, newName string) (ok bool, err error) {
	s.do(func(q *Queries) { ok, err = q.RenameNode(ctx, id, newName) })
	return
}

func (s *Store) MoveNode(ctx context.Context, id string, newParentID *string) (ok bool, err error) {
	s.do(func(q *Queries) { ok, err = q.MoveNode(ctx, id, newParentID) })
	return
}

func (s *Store) DeleteNode(ctx context.Context, id string) (ok bool, err error) {
	s.do(func(q *Queries) { ok, err = q.DeleteNode(ctx, id) })
	return
}

func (s *Store) NodeExists(ctx context.Context, id string) (ok bool, err error) {
	s.do(func(q *Queries) { ok, err = q.NodeExists(ctx, id) })
	return
}

// SetParent rewrites a node's parent link without any validation. It exists
// to build malformed trees in tests.
func (s *Store) SetParent(id string, parentID *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.st.nodes[id]
	if !ok {
		return
	}
	n.ParentID = parentID
	s.st.nodes[id] = n
}

// Queries operates on one arena without locking; the owning Store serializes
// access to it.
type Queries struct {
	st *state
}

var _ database.Querier = (*Queries)(nil)

func (q *Queries) CreateUser(ctx context.Context, arg database.CreateUserParams) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, u := range q.st.users {
		if u.Username == arg.Username || u.Email == arg.Email {
			return nil, database.ErrUserAlreadyExists
		}
	}

	user := models.User{
		ID:           q.st.nextUserID,
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	q.st.nextUserID++
	q.st.users[user.ID] = user
	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := q.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (q *Queries) findUser(match func(models.User) bool) *models.User {
	for _, u := range q.st.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return q.findUser(func(u models.User) bool { return u.Username == username }), nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return q.findUser(func(u models.User) bool { return u.Email == email }), nil
}

func (q *Queries) CreateNode(ctx context.Context, arg database.CreateNodeParams) (*models.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := q.st.nodes[arg.ID]; ok {
		return nil, ErrDuplicateID
	}
	if _, ok := q.st.users[arg.OwnerID]; !ok {
		return nil, ErrUnknownOwner
	}
	if arg.ParentID != nil {
		if _, ok := q.st.nodes[*arg.ParentID]; !ok {
			return nil, ErrUnknownParent
		}
	}
	if !arg.IsFolder && arg.StorageKey == "" {
		return nil, ErrMissingStorageKey
	}

	node := models.Node{
		ID:         arg.ID,
		OwnerID:    arg.OwnerID,
		ParentID:   cloneString(arg.ParentID),
		Name:       arg.Name,
		IsFolder:   arg.IsFolder,
		StorageKey: arg.StorageKey,
		SizeBytes:  cloneInt64(arg.SizeBytes),
		MimeType:   cloneString(arg.MimeType),
		CreatedAt:  time.Now().UTC(),
	}
	q.st.nodes[node.ID] = node

	out := node
	return &out, nil
}

func (q *Queries) GetNodeByID(ctx context.Context, id string) (*models.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, ok := q.st.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (q *Queries) GetNodesByParentID(ctx context.Context, ownerID int64, parentID *string) ([]models.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodes := []models.Node{}
	for _, n := range q.st.nodes {
		if n.OwnerID != ownerID || !sameParent(n.ParentID, parentID) {
			continue
		}
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b models.Node) int {
		if a.IsFolder != b.IsFolder {
			if a.IsFolder {
				return -1
			}
			return 1
		}
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return nodes, nil
}

func (q *Queries) GetChildren(ctx context.Context, parentID string) ([]models.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodes := []models.Node{}
	for _, n := range q.st.nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, func(a, b models.Node) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), strings.Compare(a.ID, b.ID))
	})
	return nodes, nil
}

func (q *Queries) RenameNode(ctx context.Context, id string, newName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, ok := q.st.nodes[id]
	if !ok {
		return false, nil
	}
	n.Name = newName
	q.st.nodes[id] = n
	return true, nil
}

func (q *Queries) MoveNode(ctx context.Context, id string, newParentID *string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, ok := q.st.nodes[id]
	if !ok {
		return false, nil
	}
	if newParentID != nil {
		if _, ok := q.st.nodes[*newParentID]; !ok {
			return false, ErrUnknownParent
		}
	}
	n.ParentID = cloneString(newParentID)
	q.st.nodes[id] = n
	return true, nil
}

func (q *Queries) DeleteNode(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, ok := q.st.nodes[id]; !ok {
		return false, nil
	}
	for _, n := range q.st.nodes {
		if n.ParentID != nil && *n.ParentID == id {
			return false, ErrHasChildren
		}
	}
	delete(q.st.nodes, id)
	return true, nil
}

func (q *Queries) NodeExists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := q.st.nodes[id]
	return ok, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt64(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
