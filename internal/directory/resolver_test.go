package directory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dropDatabas3/groupgate/internal/identity"
)

// fakeDirectory mapea nombre → ID; "flaky" simula una falla de transporte.
type fakeDirectory struct {
	byName map[string]string
}

func (d *fakeDirectory) GroupByName(_ context.Context, name string) (*identity.Group, error) {
	if name == "flaky" {
		return nil, errors.New("timeout de red")
	}
	id, ok := d.byName[name]
	if !ok {
		return nil, identity.ErrGroupUnknown
	}
	return &identity.Group{ID: id, Name: name}, nil
}

func newDir() *fakeDirectory {
	return &fakeDirectory{byName: map[string]string{
		"acme":          "11111111-1111-1111-1111-111111111111",
		"acme:research": "22222222-2222-2222-2222-222222222222",
	}}
}

func TestGroupUUID(t *testing.T) {
	dir := newDir()
	ctx := context.Background()

	id, ok := GroupUUID(ctx, dir, "acme")
	if !ok || id != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("GroupUUID = (%q, %v)", id, ok)
	}

	if _, ok := GroupUUID(ctx, dir, "nadie"); ok {
		t.Fatal("grupo desconocido debería retornar ok=false")
	}
	// una falla de transporte también degrada a ok=false, nunca error
	if _, ok := GroupUUID(ctx, dir, "flaky"); ok {
		t.Fatal("falla de lookup debería retornar ok=false")
	}
}

func TestGroupUUIDsPartial(t *testing.T) {
	dir := newDir()

	got := GroupUUIDs(context.Background(), dir, []string{"acme", "nadie", "acme:research"})
	want := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupUUIDs = %v, want %v", got, want)
	}
}

func TestGroupUUIDsEmpty(t *testing.T) {
	if got := GroupUUIDs(context.Background(), newDir(), nil); len(got) != 0 {
		t.Fatalf("GroupUUIDs(nil) = %v, want vacío", got)
	}
}
