package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Record is one discovery of the import dataset:
//
//	{"id": "...", "name": "...", "year": 1905,
//	 "topic_label": "Relativity", "topic_hierarchy": ["Physics", "Relativity"]}
//
// Years may be numbers, quoted numbers or null. Stray double quotes around
// strings are removed.
type Record struct {
	ID             string   `json:"id" bson:"_id"`
	Name           string   `json:"name" bson:"name"`
	Year           *int     `json:"year" bson:"year"`
	TopicLabel     string   `json:"topic_label" bson:"topic"`
	TopicHierarchy []string `json:"topic_hierarchy" bson:"hierarchy"`
}

// recordNamespace derives stable IDs for records imported without one.
var recordNamespace = uuid.MustParse("6f1c8f43-52b9-4c0f-9d1e-3a7c2f0b9e51")

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             json.RawMessage `json:"id"`
		Name           string          `json:"name"`
		Year           json.RawMessage `json:"year"`
		TopicLabel     string          `json:"topic_label"`
		TopicHierarchy []string        `json:"topic_hierarchy"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	year, err := parseYear(raw.Year)
	if err != nil {
		return fmt.Errorf("record %q: %w", raw.Name, err)
	}

	*r = Record{
		ID:         rawString(raw.ID),
		Name:       unquote(raw.Name),
		Year:       year,
		TopicLabel: unquote(raw.TopicLabel),
	}
	for _, h := range raw.TopicHierarchy {
		if h = unquote(h); h != "" {
			r.TopicHierarchy = append(r.TopicHierarchy, h)
		}
	}
	return nil
}

// Normalize fills a missing ID from the topic and name, and reports records
// that cannot be stored.
func (r *Record) Normalize() error {
	if r.Name == "" {
		return fmt.Errorf("record %q: missing name", r.ID)
	}
	if r.TopicLabel == "" {
		return fmt.Errorf("record %q: missing topic_label", r.Name)
	}
	if r.ID == "" {
		r.ID = uuid.NewSHA1(recordNamespace, []byte(r.TopicLabel+"\x00"+r.Name)).String()
	}
	return nil
}

// Branch returns the record's branch.
func (r *Record) Branch() string { return BranchOf(r.TopicHierarchy) }

// ReadRecords decodes a JSON array of records and normalizes them.
func ReadRecords(rd io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(rd).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for i := range recs {
		if err := recs[i].Normalize(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return recs, nil
}

// ReadRecordsFile reads records from a JSON file.
func ReadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// rawString accepts string or numeric IDs.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return unquote(s)
	}
	return string(raw)
}

// parseYear accepts null, a number, or a string holding a number. Strings
// that are not numbers become nil.
func parseYear(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("year: %w", err)
		}
		s = unquote(s)
	} else {
		s = string(raw)
	}
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if raw[0] == '"' {
			return nil, nil
		}
		return nil, fmt.Errorf("year %s: %w", raw, err)
	}
	y := int(f)
	return &y, nil
}
