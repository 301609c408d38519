package postgres

import (
	"reflect"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestFoldUserRows_GroupsAndDeduplicates(t *testing.T) {
	rows := []userRow{
		{id: 1, firstName: "Ada", lastName: "Lovelace", address: "1 Analytical Engine Way", phoneNumber: "5551234567", hobby: strptr("knitting")},
		{id: 1, firstName: "Ada", lastName: "Lovelace", address: "1 Analytical Engine Way", phoneNumber: "5551234567", hobby: strptr("knitting")},
		{id: 1, firstName: "Ada", lastName: "Lovelace", address: "1 Analytical Engine Way", phoneNumber: "5551234567", hobby: strptr("mathematics")},
		{id: 2, firstName: "Grace", lastName: "Hopper", address: "3 Compiler Court", phoneNumber: "5559876543", hobby: nil},
	}

	out := foldUserRows(rows)

	if len(out) != 2 {
		t.Fatalf("got %d aggregates, want 2", len(out))
	}
	if out[0].ID != 1 || out[1].ID != 2 {
		t.Fatalf("order: got ids %d,%d, want 1,2", out[0].ID, out[1].ID)
	}
	// Duplicate labels fold to one occurrence, first-seen order preserved.
	if want := []string{"knitting", "mathematics"}; !reflect.DeepEqual(out[0].Hobbies, want) {
		t.Errorf("hobbies: got %v, want %v", out[0].Hobbies, want)
	}
	if out[1].Hobbies == nil || len(out[1].Hobbies) != 0 {
		t.Errorf("hobbies for user without rows: got %#v, want empty non-nil slice", out[1].Hobbies)
	}
}

func TestFoldUserRows_InterleavedRowsStayGrouped(t *testing.T) {
	rows := []userRow{
		{id: 1, firstName: "Ada", hobby: strptr("knitting")},
		{id: 2, firstName: "Grace", hobby: strptr("sailing")},
		{id: 1, firstName: "Ada", hobby: strptr("chess")},
	}

	out := foldUserRows(rows)

	if len(out) != 2 {
		t.Fatalf("got %d aggregates, want 2", len(out))
	}
	if want := []string{"knitting", "chess"}; !reflect.DeepEqual(out[0].Hobbies, want) {
		t.Errorf("first aggregate hobbies: got %v, want %v", out[0].Hobbies, want)
	}
	if want := []string{"sailing"}; !reflect.DeepEqual(out[1].Hobbies, want) {
		t.Errorf("second aggregate hobbies: got %v, want %v", out[1].Hobbies, want)
	}
}

func TestFoldUserRows_Empty(t *testing.T) {
	out := foldUserRows(nil)
	if out == nil {
		t.Fatal("got nil, want empty slice")
	}
	if len(out) != 0 {
		t.Fatalf("got %d aggregates, want 0", len(out))
	}
}

func TestNewDirectoryRepository_QueriesUseSchema(t *testing.T) {
	r := NewDirectoryRepository(nil, "directory")

	for name, q := range map[string]string{
		"insertUser":  r.insertUser,
		"insertHobby": r.insertHobby,
		"deleteUser":  r.deleteUser,
		"listUsers":   r.listUsers,
	} {
		if !strings.Contains(q, "directory.") {
			t.Errorf("%s: query does not reference the schema namespace: %s", name, q)
		}
	}
}
