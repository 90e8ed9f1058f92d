// Package gitstore provides a Git plumbing-based implementation of the stores.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/infra/storelock"
)

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store implements domain.Store using Git plumbing (refs and blobs).
// Records never touch the working tree or the commit history.
//
// Data structure:
//
//	refs/<namespace>/
//	  initialized   → empty blob
//	  projects/<id> → blob (project YAML)
//	  tasks/<id>    → blob (task YAML)
//	  deps/<id>     → blob (dependency YAML)
type Store struct {
	repo      *git.Repository
	repoPath  string // path to the repository, empty for in-memory repositories
	namespace string // e.g., "taskdag"
	memLocks  storelock.Table // insert locks of in-memory repositories
	mu        sync.RWMutex
}

// New opens the repository at repoPath. A missing repository is created by
// Initialize; until then every operation returns domain.ErrNotInitialized.
func New(repoPath, namespace string) (*Store, error) {
	s := &Store{repoPath: repoPath, namespace: namespace}
	repo, err := git.PlainOpen(repoPath)
	switch {
	case err == nil:
		s.repo = repo
	case errors.Is(err, git.ErrRepositoryNotExists):
	default:
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return s, nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return &Store{repo: repo, namespace: namespace}
}

const (
	kindProjects = "projects"
	kindTasks    = "tasks"
	kindDeps     = "deps"
)

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

func (s *Store) recordRef(kind, id string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + kind + "/" + id)
}

// initializedRef returns the ref name for the initialized marker.
func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// Initialize creates the repository if needed and writes the initialized marker.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		repo, err := git.PlainInit(s.repoPath, true)
		if err != nil {
			return fmt.Errorf("init git repository: %w", err)
		}
		s.repo = repo
	}

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("check initialized ref: %w", err)
	}

	hash, err := s.writeBlob(nil)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.initializedRef(), hash)); err != nil {
		return fmt.Errorf("set initialized ref: %w", err)
	}
	return nil
}

// IsInitialized checks whether the initialized marker exists.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.repo == nil {
		return false
	}
	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}

// LockProject takes the project's insert lock. On-disk repositories use an
// flock on <git dir>/<namespace>-locks/project-<id>.lock, outside the refs
// and the working tree; in-memory repositories use an in-process lock.
func (s *Store) LockProject(ctx context.Context, projectID string) (func(), error) {
	s.mu.RLock()
	err := s.ready(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if s.repoPath == "" {
		return s.memLocks.Lock(ctx, projectID)
	}
	return storelock.File(ctx, storelock.FilePath(s.locksDir(), projectID))
}

// locksDir returns the lock directory inside the git directory.
func (s *Store) locksDir() string {
	gitDir := s.repoPath
	if info, err := os.Stat(filepath.Join(s.repoPath, ".git")); err == nil && info.IsDir() {
		gitDir = filepath.Join(s.repoPath, ".git")
	}
	return filepath.Join(gitDir, s.namespace+"-locks")
}

// ready checks the context and the repository before an operation.
// It must be called with s.mu held.
func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.repo == nil {
		return domain.ErrNotInitialized
	}
	return nil
}

// get decodes the record at kind/id into out. Returns false if the ref does not exist.
func (s *Store) get(kind, id string, out any) (bool, error) {
	ref, err := s.repo.Reference(s.recordRef(kind, id), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get %s ref: %w", kind, err)
	}
	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return false, fmt.Errorf("read %s %s: %w", kind, id, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s %s: %w", kind, id, err)
	}
	return true, nil
}

// put encodes v into a blob and points kind/id at it.
func (s *Store) put(kind, id string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", kind, id, err)
	}
	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.recordRef(kind, id), hash)); err != nil {
		return fmt.Errorf("set %s ref: %w", kind, err)
	}
	return nil
}

// remove deletes the ref kind/id. Returns false if it did not exist.
func (s *Store) remove(kind, id string) (bool, error) {
	name := s.recordRef(kind, id)
	if _, err := s.repo.Reference(name, true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get %s ref: %w", kind, err)
	}
	if err := s.repo.Storer.RemoveReference(name); err != nil {
		return false, fmt.Errorf("remove %s ref: %w", kind, err)
	}
	return true, nil
}

// each decodes every record of kind and passes it to fn.
func each[T any](s *Store, kind string, fn func(*T) error) error {
	prefix := s.refPrefix() + kind + "/"
	refs, err := s.repo.References()
	if err != nil {
		return fmt.Errorf("list refs: %w", err)
	}
	defer refs.Close()

	return refs.ForEach(func(ref *plumbing.Reference) error {
		name := string(ref.Name())
		if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			return nil
		}
		data, err := s.readBlob(ref.Hash())
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		var rec T
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		return fn(&rec)
	})
}

func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}
	if err := writer.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob writer: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}
