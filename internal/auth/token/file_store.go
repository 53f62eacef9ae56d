package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/collabblog/blogclient/internal/auth/model"
	"go.uber.org/zap"
)

// FileStore keeps credentials in a single JSON file, the CLI analogue of the
// browser's local storage. The file is chmod 0600 and rewritten atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

type fileData struct {
	AccessToken  string          `json:"cb_access_token,omitempty"`
	RefreshToken string          `json:"cb_refresh_token,omitempty"`
	UserData     json.RawMessage `json:"cb_user_data,omitempty"`
}

func (s *FileStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.read()
	return d.AccessToken, d.AccessToken != ""
}

func (s *FileStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.read()
	return d.RefreshToken, d.RefreshToken != ""
}

func (s *FileStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.read()
	d.AccessToken = access
	d.RefreshToken = refresh
	s.write(d)
}

func (s *FileStore) ClearTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.read()
	d.AccessToken = ""
	d.RefreshToken = ""
	s.write(d)
}

func (s *FileStore) SaveProfile(u model.User) {
	if u.ID == "" {
		s.log.Error("refusing to cache profile without id")
		return
	}

	raw, err := json.Marshal(u)
	if err != nil {
		s.log.Error("marshal cached profile", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.read()
	d.UserData = raw
	s.write(d)
}

func (s *FileStore) CachedProfile() (model.User, bool) {
	s.mu.Lock()
	d := s.read()
	s.mu.Unlock()

	if len(d.UserData) == 0 {
		return model.User{}, false
	}
	var u model.User
	if err := json.Unmarshal(d.UserData, &u); err != nil {
		s.log.Warn("corrupt cached profile, discarding", zap.Error(err))
		return model.User{}, false
	}
	return u, true
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error("clear credentials file", zap.Error(err))
	}
}

// read returns the current file contents, or zero data when the file is
// missing or unreadable. Callers hold s.mu.
func (s *FileStore) read() fileData {
	var d fileData
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("read credentials file", zap.Error(err))
		}
		return d
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		s.log.Warn("corrupt credentials file, treating as empty", zap.Error(err))
		return fileData{}
	}
	return d
}

func (s *FileStore) write(d fileData) {
	raw, err := json.Marshal(d)
	if err != nil {
		s.log.Error("marshal credentials", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Error("create credentials dir", zap.Error(err))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		s.log.Error("write credentials file", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error("replace credentials file", zap.Error(err))
	}
}
