package token

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/collabblog/blogclient/internal/auth/model"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), zap.NewNop())
}

func TestFileStore_TokenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.AccessToken(); ok {
		t.Fatal("fresh store must have no access token")
	}
	if _, ok := s.RefreshToken(); ok {
		t.Fatal("fresh store must have no refresh token")
	}

	s.SetTokens("acc", "ref")
	if tok, ok := s.AccessToken(); !ok || tok != "acc" {
		t.Fatalf("want acc got %q %v", tok, ok)
	}
	if tok, ok := s.RefreshToken(); !ok || tok != "ref" {
		t.Fatalf("want ref got %q %v", tok, ok)
	}

	s.ClearTokens()
	if _, ok := s.AccessToken(); ok {
		t.Fatal("tokens must be gone after ClearTokens")
	}
}

func TestFileStore_ProfileSurvivesTokenClear(t *testing.T) {
	s := newTestStore(t)
	s.SetTokens("acc", "ref")
	s.SaveProfile(model.User{ID: "u1", Email: "a@b.com", Role: model.RoleWriter})

	s.ClearTokens()

	u, ok := s.CachedProfile()
	if !ok || u.ID != "u1" || u.Role != model.RoleWriter {
		t.Fatalf("profile should survive ClearTokens: %+v %v", u, ok)
	}
}

func TestFileStore_ClearRemovesEverything(t *testing.T) {
	s := newTestStore(t)
	s.SetTokens("acc", "ref")
	s.SaveProfile(model.User{ID: "u1"})

	s.Clear()

	if _, ok := s.AccessToken(); ok {
		t.Fatal("access token survived Clear")
	}
	if _, ok := s.CachedProfile(); ok {
		t.Fatal("profile survived Clear")
	}
	// Clearing an already-clear store must not blow up.
	s.Clear()
}

func TestFileStore_ProfileWithoutIDIsRejected(t *testing.T) {
	s := newTestStore(t)
	s.SaveProfile(model.User{Email: "no-id@b.com"})
	if _, ok := s.CachedProfile(); ok {
		t.Fatal("profile without id must not be cached")
	}
}

func TestFileStore_CorruptFileDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path, zap.NewNop())
	if _, ok := s.AccessToken(); ok {
		t.Fatal("corrupt file must read as absent")
	}

	// Writes still work after corruption.
	s.SetTokens("acc", "ref")
	if tok, ok := s.AccessToken(); !ok || tok != "acc" {
		t.Fatalf("store unusable after corruption: %q %v", tok, ok)
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	s := newTestStore(t)
	s.SetTokens("acc", "ref")

	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credentials file mode = %o, want 600", perm)
	}
}
