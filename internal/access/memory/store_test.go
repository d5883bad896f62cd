package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dropDatabas3/groupgate/internal/access"
)

func TestNewNormalizesLiterals(t *testing.T) {
	st, err := New(map[string]map[string][]string{
		"grp-docs": {
			"g-a": {"READ", " create "},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	acl, err := st.GroupACL(context.Background(), "grp-docs")
	if err != nil {
		t.Fatalf("GroupACL: %v", err)
	}
	perms, ok := acl.Grants("g-a")
	if !ok {
		t.Fatal("g-a no figura en la tabla")
	}
	if len(perms) != 2 || perms[0] != access.PermissionRead || perms[1] != access.PermissionCreate {
		t.Fatalf("perms = %v", perms)
	}
}

func TestNewRejectsUnknownLiteral(t *testing.T) {
	_, err := New(map[string]map[string][]string{
		"grp-docs": {"g-a": {"read", "fly"}},
	})
	if err == nil {
		t.Fatal("se esperaba error de construcción por literal inválido")
	}
}

func TestGroupACLUnknownGroup(t *testing.T) {
	st, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = st.GroupACL(context.Background(), "grp-nope")
	if !errors.Is(err, access.ErrUnknownGroup) {
		t.Fatalf("err = %v, want ErrUnknownGroup", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acl.yaml")
	seed := []byte(`groups:
  grp-docs:
    g-a: [read, create, update]
    g-b: [read]
`)
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	st, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	acl, err := st.GroupACL(context.Background(), "grp-docs")
	if err != nil {
		t.Fatalf("GroupACL: %v", err)
	}
	if perms, _ := acl.Grants("g-b"); len(perms) != 1 || perms[0] != access.PermissionRead {
		t.Fatalf("g-b perms = %v", perms)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("se esperaba error por archivo inexistente")
	}
}
