package record

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"
)

func file(name string) Record { return Record{Name: name} }
func dir(name string) Record  { return Record{Name: name, IsDirectory: true} }

// TestCompare tests the directory-first, name-ascending order
func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Record
		want int
	}{
		{dir("zeta"), file("alpha"), -1},
		{file("alpha"), dir("zeta"), 1},
		{file("apple"), file("applesauce"), -1},
		{dir("mid"), dir("alpha"), 1},
		{file("Banana"), file("apple"), -1}, // uppercase sorts first
		{file("same"), file("same"), 0},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%+v, %+v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestEqualIgnoresName tests that equality only considers the directory flag
func TestEqualIgnoresName(t *testing.T) {
	if !file("a").Equal(file("b")) {
		t.Error("Expected two files to be equal regardless of name")
	}
	if dir("a").Equal(file("a")) {
		t.Error("Expected a directory and a file with the same name to differ")
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		base, stem, ext string
		hasExt          bool
	}{
		{"apple.txt", "apple", "txt", true},
		{"archive.tar.gz", "archive.tar", "gz", true},
		{".bashrc", ".bashrc", "", false},
		{"Makefile", "Makefile", "", false},
		{"trailing.", "trailing", "", true},
	}

	for _, tt := range tests {
		stem, ext, hasExt := SplitName(tt.base)
		if stem != tt.stem || ext != tt.ext || hasExt != tt.hasExt {
			t.Errorf("SplitName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.base, stem, ext, hasExt, tt.stem, tt.ext, tt.hasExt)
		}
	}
}

// TestFromEntry tests the derived name, extension and icon of an entry
func TestFromEntry(t *testing.T) {
	icons := IconTable{
		Dir:     "folder",
		Default: "generic",
		ByExt:   map[string]string{"pdf": "pdf-icon"},
	}

	tests := []struct {
		base  string
		isDir bool
		want  Record
	}{
		{"report.PDF", false, Record{Name: "report", Ext: "PDF", Icon: "pdf-icon"}},
		{"Makefile", false, Record{Name: "Makefile", Ext: "Makefile", Icon: "generic"}},
		{"src", true, Record{Name: "src", Ext: "dir", Icon: "folder", IsDirectory: true}},
		{"conf.d", true, Record{Name: "conf", Ext: "d", Icon: "folder", IsDirectory: true}},
	}

	for _, tt := range tests {
		got := FromEntry("/root", tt.base, tt.isDir, icons)
		tt.want.Path = filepath.Join("/root", tt.base)
		if got != tt.want {
			t.Errorf("FromEntry(%q) = %+v, want %+v", tt.base, got, tt.want)
		}
	}
}

func TestIconLookupFallbacks(t *testing.T) {
	table := IconTable{Default: "generic", ByExt: map[string]string{DirIconKey: "from-map"}}

	if got := table.Lookup("", true); got != "from-map" {
		t.Errorf("Expected reserved dir key to be used, got %q", got)
	}
	if got := table.Lookup("xyz", false); got != "generic" {
		t.Errorf("Expected default icon, got %q", got)
	}

	merged := DefaultIcons().Merge(IconTable{ByExt: map[string]string{".MD": "markdown"}})
	if got := merged.Lookup("md", false); got != "markdown" {
		t.Errorf("Expected merged icon for md, got %q", got)
	}
	if got := merged.Lookup("txt", false); got != FileIcon {
		t.Errorf("Expected built-in icon for txt to survive merge, got %q", got)
	}
}

func randomRecords(n int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			Name:        fmt.Sprintf("entry-%04d", rng.Intn(n)),
			Path:        fmt.Sprintf("/tmp/%d", i),
			IsDirectory: rng.Intn(3) == 0,
		}
	}
	return out
}

func assertOrdered(t *testing.T, records []Record) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		if Compare(records[i-1], records[i]) > 0 {
			t.Fatalf("Records out of order at %d: %+v before %+v", i, records[i-1], records[i])
		}
	}
}

// TestSortOrdering tests that directories precede files and names ascend
func TestSortOrdering(t *testing.T) {
	for _, threshold := range []int{0, 2, 16, DefaultSortThreshold} {
		records := randomRecords(500, int64(threshold))
		SortThreshold(records, threshold)
		assertOrdered(t, records)

		seenFile := false
		for _, r := range records {
			if !r.IsDirectory {
				seenFile = true
			} else if seenFile {
				t.Fatalf("threshold %d: directory %q after a file", threshold, r.Name)
			}
		}
	}
}

// TestSortIsPermutation tests that no records are created, lost or duplicated
func TestSortIsPermutation(t *testing.T) {
	records := randomRecords(300, 42)
	before := make(map[string]int)
	for _, r := range records {
		before[r.Path]++
	}

	SortThreshold(records, 8)

	after := make(map[string]int)
	for _, r := range records {
		after[r.Path]++
	}
	if len(before) != len(after) {
		t.Fatalf("Expected %d distinct records, got %d", len(before), len(after))
	}
	for path, n := range before {
		if after[path] != n {
			t.Errorf("Record %s appears %d times, want %d", path, after[path], n)
		}
	}
}

// TestSortIdempotent tests that sorting sorted input is a no-op
func TestSortIdempotent(t *testing.T) {
	records := randomRecords(200, 7)
	Sort(records)
	again := append([]Record(nil), records...)
	Sort(again)

	for i := range records {
		if records[i] != again[i] {
			t.Fatalf("Second sort changed index %d: %+v -> %+v", i, records[i], again[i])
		}
	}
}

// TestSortTieKeepsLeft tests that ties by Compare keep their input order
func TestSortTieKeepsLeft(t *testing.T) {
	records := []Record{
		{Name: "dup", Path: "/first"},
		{Name: "dup", Path: "/second"},
		{Name: "dup", Path: "/third"},
		{Name: "aaa", Path: "/a"},
	}
	SortThreshold(records, 0)

	want := []string{"/a", "/first", "/second", "/third"}
	for i, r := range records {
		if r.Path != want[i] {
			t.Errorf("Index %d: got %s, want %s", i, r.Path, want[i])
		}
	}
}

// TestSortMatchesStdlib tests agreement with sort.SliceStable
func TestSortMatchesStdlib(t *testing.T) {
	records := randomRecords(1000, 99)
	expected := append([]Record(nil), records...)
	sort.SliceStable(expected, func(i, j int) bool { return Less(expected[i], expected[j]) })

	SortThreshold(records, 64)
	for i := range records {
		if records[i] != expected[i] {
			t.Fatalf("Index %d: got %+v, want %+v", i, records[i], expected[i])
		}
	}
}

func TestSortSmallInputs(t *testing.T) {
	Sort(nil)
	one := []Record{file("only")}
	Sort(one)
	if one[0].Name != "only" {
		t.Errorf("Single element changed: %+v", one[0])
	}
}

func BenchmarkSort(b *testing.B) {
	for _, threshold := range []int{0, 256, DefaultSortThreshold, 1 << 30} {
		b.Run(fmt.Sprintf("threshold=%d", threshold), func(b *testing.B) {
			base := randomRecords(10000, 1)
			buf := make([]Record, len(base))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(buf, base)
				SortThreshold(buf, threshold)
			}
		})
	}
}
