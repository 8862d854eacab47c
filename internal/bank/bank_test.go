package bank

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stemsi/aptitude-quiz/internal/model"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = ` Question ,Option A,OPTION B,option c,Option D, Answer ,Difficulty
What is 2+2?,3,4,5,6,b,easy
Capital of France?,Berlin,Madrid,Paris,Rome, C ,easy
Broken row?,w,x,y,z,E,hard

Odd one out?,Cat,Dog,Car,Cow,c,medium
`

func TestReadCSV(t *testing.T) {
	qs, err := ReadCSV(strings.NewReader(sampleCSV), "General")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("got %d questions, want 4", len(qs))
	}

	want := model.Question{
		Topic:    "General",
		Question: "What is 2+2?",
		Options:  [4]string{"3", "4", "5", "6"},
		Answer:   "4",
	}
	if qs[0] != want {
		t.Errorf("first question = %+v, want %+v", qs[0], want)
	}
	if qs[1].Answer != "Paris" {
		t.Errorf("padded answer letter resolved to %q", qs[1].Answer)
	}
	if qs[2].Answer != "" {
		t.Errorf("unknown letter resolved to %q, want empty", qs[2].Answer)
	}

	for _, q := range qs {
		if q.Answer != "" && !q.Answerable() {
			t.Errorf("answer %q not in options %v", q.Answer, q.Options)
		}
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("question,option a,option b,option c,answer\nq,a,b,c,A\n"), "T")
	if err == nil || !strings.Contains(err.Error(), `"option d"`) {
		t.Fatalf("expected missing option d error, got %v", err)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader(""), "T"); !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("expected ErrEmptySheet, got %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Question", "Option A", "Option B", "Option C", "Option D", "Answer"},
		{"What is 2+2?", "3", "4", "5", "6", "B"},
		{"Next in 2, 4, 8?", "10", "12", "16", "14", "c"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	qs, err := LoadFile(path, "Logic")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions", len(qs))
	}
	if qs[0].Answer != "4" || qs[1].Answer != "16" || qs[1].Topic != "Logic" {
		t.Errorf("unexpected questions %+v", qs)
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	if _, err := LoadFile("questions.json", "T"); err == nil {
		t.Fatal("expected error for .json source")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestAndPool(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "data", "tech.csv"),
		"question,option a,option b,option c,option d,answer\nBinary of 2?,01,10,11,00,B\nBits in a byte?,4,8,16,32,b\n")
	writeFile(t, filepath.Join(dir, "data", "apt.csv"),
		"question,option a,option b,option c,option d,answer\n5*5?,20,25,30,35,B\n")
	writeFile(t, filepath.Join(dir, "banks.yaml"), `sources:
  - topic: CSE / Technical
    path: data/tech.csv
  - topic: General Aptitude
    path: data/apt.csv
`)

	m, err := LoadManifest(filepath.Join(dir, "banks.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Sources[0].Path != filepath.Join(dir, "data", "tech.csv") {
		t.Errorf("relative path not resolved: %s", m.Sources[0].Path)
	}

	pool, err := Load(m)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pool.Len() != 3 {
		t.Fatalf("pool has %d questions", pool.Len())
	}

	topics := pool.Topics()
	wantTopics := []model.TopicInfo{
		{Name: model.TopicMixed, Count: 3},
		{Name: "CSE / Technical", Count: 2},
		{Name: "General Aptitude", Count: 1},
	}
	if len(topics) != len(wantTopics) {
		t.Fatalf("topics = %+v", topics)
	}
	for i := range wantTopics {
		if topics[i] != wantTopics[i] {
			t.Errorf("topic %d = %+v, want %+v", i, topics[i], wantTopics[i])
		}
	}

	tech, err := pool.ByTopic("CSE / Technical")
	if err != nil || len(tech) != 2 {
		t.Fatalf("ByTopic = %d, %v", len(tech), err)
	}
	tech[0].Question = "mutated"
	again, _ := pool.ByTopic("CSE / Technical")
	if again[0].Question == "mutated" {
		t.Error("ByTopic exposed the pool's backing array")
	}

	if _, err := pool.ByTopic("Astrology"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("unknown topic error = %v", err)
	}
	if pool.Degenerate() != 0 {
		t.Errorf("degenerate = %d", pool.Degenerate())
	}
}

func TestLoad_MissingSourceIsFatal(t *testing.T) {
	m := &Manifest{Sources: []Source{{Topic: "T", Path: filepath.Join(t.TempDir(), "missing.csv")}}}
	if _, err := Load(m); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.yaml")
	writeFile(t, path, "sources: []\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for empty manifest")
	}
}
