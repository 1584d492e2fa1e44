package symbols

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFind_CaseAndWhitespaceInsensitive(t *testing.T) {
	for _, name := range []string{"item", "Item", "ITEM", " item ", "\titem"} {
		t.Run(name, func(t *testing.T) {
			table := "1;shape\n42;" + name + ";extra\n"
			id, err := Find(strings.NewReader(table), "item")
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if id != 42 {
				t.Errorf("id = %d, want 42", id)
			}
		})
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		want    int
		wantErr error
	}{
		{"first match wins", "3;item\n9;item\n", 3, nil},
		{"skips unparsable id", "abc;item\n7;item\n", 7, nil},
		{"only unparsable ids", "x;item\n;item\n", 0, ErrSymbolNotFound},
		{"no item row", "1;background\n2;frame\n", 0, ErrSymbolNotFound},
		{"empty table", "", 0, ErrSymbolNotFound},
		{"short rows ignored", "5\nitem\n6;item\n", 6, nil},
		{"padded id", " 12 ;item\n", 12, nil},
		{"name must be exact", "4;items\n5;item_icon\n", 0, ErrSymbolNotFound},
		{"quoted fields", "\"8\";\"Item\";\"a;b\"\n", 8, nil},
		{"byte order mark", "\ufeff11;item\n", 11, nil},
		{"crlf line endings", "1;shape\r\n13;item\r\n", 13, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(strings.NewReader(tt.table), "item")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if got != tt.want {
				t.Errorf("id = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFind_CustomName(t *testing.T) {
	id, err := Find(strings.NewReader("1;item\n2;Icon\n"), "ICON")
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Errorf("id = %d, want 2", id)
	}
}

func TestTablePath(t *testing.T) {
	got := TablePath("iconsymbol", "pet_01")
	want := filepath.Join("iconsymbol", "pet_01.swf", "symbols.csv")
	if got != want {
		t.Errorf("TablePath = %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeTable(t, root, "a", "5;item\n")
	writeTable(t, root, "b", "5;frame\n")

	id, err := Resolve(root, "a", "item")
	if err != nil {
		t.Fatalf("Resolve(a): %v", err)
	}
	if id != 5 {
		t.Errorf("Resolve(a) = %d, want 5", id)
	}

	if _, err := Resolve(root, "b", "item"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("Resolve(b) err = %v, want ErrSymbolNotFound", err)
	}

	_, err = Resolve(root, "missing", "item")
	if !errors.Is(err, ErrTableMissing) {
		t.Errorf("Resolve(missing) err = %v, want ErrTableMissing", err)
	}
	if errors.Is(err, ErrSymbolNotFound) {
		t.Error("missing table must not be reported as symbol not found")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTable(t, root, "a", "x;item\n17;Item\n18;item\n")
	for i := 0; i < 3; i++ {
		id, err := Resolve(root, "a", "item")
		if err != nil || id != 17 {
			t.Fatalf("run %d: id=%d err=%v, want 17", i, id, err)
		}
	}
}

func writeTable(t *testing.T, root, stem, content string) {
	t.Helper()
	dir := filepath.Join(root, stem+".swf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TableFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
