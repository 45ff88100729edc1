package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"michelin-scraper/models"
	"michelin-scraper/services"
	"michelin-scraper/utils"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadReferencesMissingURLColumn(t *testing.T) {
	path := writeFile(t, "listing.csv", "name,location\nSorn,Bangkok\n")

	_, err := ReadReferences(path)
	if !errors.Is(err, ErrMissingURLColumn) {
		t.Fatalf("expected ErrMissingURLColumn, got %v", err)
	}
}

func TestReadReferencesFiltersSentinelURLs(t *testing.T) {
	path := writeFile(t, "listing.csv",
		"name,url,stars,distinction,location\n"+
			"Sorn,https://guide.example.com/r/sorn,3,3 star,Bangkok\n"+
			"Ghost,N/A,0,None,Bangkok\n"+
			"Blank,,0,None,Bangkok\n"+
			"Le Du,https://guide.example.com/r/le-du,1,1 star,Bangkok\n")

	refs, err := ReadReferences(path)
	if err != nil {
		t.Fatalf("ReadReferences: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("expected 2 usable references, got %d", len(refs))
	}
	if refs[0].Name != "Sorn" || refs[0].Stars != 3 {
		t.Errorf("first reference mismatch: %+v", refs[0])
	}
	if refs[1].URL != "https://guide.example.com/r/le-du" {
		t.Errorf("second reference URL mismatch: %s", refs[1].URL)
	}
}

func TestReadReferencesDefaultsOptionalColumns(t *testing.T) {
	path := writeFile(t, "listing.csv", "url\nhttps://guide.example.com/r/solo\n")

	refs, err := ReadReferences(path)
	if err != nil {
		t.Fatalf("ReadReferences: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}

	ref := refs[0]
	if ref.Name != models.Unavailable || ref.Location != models.Unavailable ||
		ref.Distinction != models.Unavailable || ref.Stars != 0 {
		t.Errorf("optional columns should default to sentinels: %+v", ref)
	}
}

func TestListingCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.csv")
	norm := services.NewNormalizer(utils.NewLogger())

	writer, err := NewListingCSVWriter(path, norm)
	if err != nil {
		t.Fatalf("NewListingCSVWriter: %v", err)
	}

	restaurants := []models.Restaurant{
		{Name: "Sorn", URL: "https://guide.example.com/r/sorn", Stars: 3,
			Distinction: "3 star", Location: "Bangkok", Price: "฿฿฿฿", Cuisine: "Southern Thai"},
		{Name: "Here Joi", URL: "https://guide.example.com/r/here-joi", Stars: 0,
			Distinction: "Bib Gourmand", Location: "Khon Kaen", Price: "฿", Cuisine: "Noodles"},
	}
	if err := writer.Write(restaurants); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	refs, err := ReadReferences(path)
	if err != nil {
		t.Fatalf("ReadReferences: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 references back, got %d", len(refs))
	}
	if refs[0].Name != "Sorn" || refs[0].Stars != 3 || refs[0].Distinction != "3 star" {
		t.Errorf("round-tripped reference mismatch: %+v", refs[0])
	}
}

func TestDetailCSVWritesUnionHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "details.csv")
	norm := services.NewNormalizer(utils.NewLogger())

	writer, err := NewDetailCSVWriter(path, norm)
	if err != nil {
		t.Fatalf("NewDetailCSVWriter: %v", err)
	}

	results := []models.DetailResult{
		{URL: "https://guide.example.com/r/ok", Detail: &models.Detail{
			URL: "https://guide.example.com/r/ok", Address: "somewhere",
			Phone: models.Unavailable, Description: models.Unavailable,
			PriceRange: models.Unavailable, CuisineType: models.Unavailable,
			Website: models.Unavailable, Name: "OK", Location: "Bangkok",
			Distinction: "None",
		}},
		{URL: "https://guide.example.com/r/bad", Err: "load failure"},
	}
	if err := writer.Write(results); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	head := string(data[:len("address,cuisine_type")])
	if head != "address,cuisine_type" {
		t.Errorf("header should start with sorted union keys, got %q", head)
	}
}
