// Package prefs is the durable client-local storage of the board app: the
// last connected board id and the "show archived" switch, kept per
// identity so a returning session resumes where it left off.
package prefs

import (
	"errors"
	"os"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type record struct {
	BoardID      string `json:"board_id,omitempty"`
	ShowArchived bool   `json:"show_archived,omitempty"`
}

type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]record
}

// NewFileStore loads the prefs file at path, creating an empty store when
// the file doesn't exist yet.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:    path,
		records: make(map[string]record),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return nil, errors.New("reading prefs file error: " + err.Error())
	}
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &fs.records); err != nil {
			return nil, errors.New("parsing prefs file error: " + err.Error())
		}
	}
	return fs, nil
}

func (fs *FileStore) BoardID(identity uuid.UUID) (uuid.UUID, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	rec, ok := fs.records[identity.String()]
	if !ok || rec.BoardID == "" {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(rec.BoardID)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func (fs *FileStore) SetBoardID(identity, boardID uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	rec := fs.records[identity.String()]
	rec.BoardID = boardID.String()
	fs.records[identity.String()] = rec
	return fs.flushLocked()
}

func (fs *FileStore) ClearBoardID(identity uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	rec := fs.records[identity.String()]
	rec.BoardID = ""
	fs.records[identity.String()] = rec
	return fs.flushLocked()
}

func (fs *FileStore) ShowArchived(identity uuid.UUID) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.records[identity.String()].ShowArchived
}

func (fs *FileStore) SetShowArchived(identity uuid.UUID, show bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	rec := fs.records[identity.String()]
	rec.ShowArchived = show
	fs.records[identity.String()] = rec
	return fs.flushLocked()
}

func (fs *FileStore) flushLocked() error {
	data, err := sonic.Marshal(fs.records)
	if err != nil {
		return errors.New("encoding prefs error: " + err.Error())
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return errors.New("writing prefs file error: " + err.Error())
	}
	return nil
}
