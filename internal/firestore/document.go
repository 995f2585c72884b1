package firestore

import (
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
)

// value is the tagged union Firestore uses for field values. Only the
// variants a checkpoint needs are modelled.
type value struct {
	TimestampValue *string          `json:"timestampValue,omitempty"`
	StringValue    *string          `json:"stringValue,omitempty"`
	BooleanValue   *bool            `json:"booleanValue,omitempty"`
	NullValue      *json.RawMessage `json:"nullValue,omitempty"`
}

type document struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields"`
}

type runQueryRequest struct {
	StructuredQuery structuredQuery `json:"structuredQuery"`
}

type structuredQuery struct {
	From    []collectionSelector `json:"from"`
	Where   *filter              `json:"where,omitempty"`
	OrderBy []order              `json:"orderBy,omitempty"`
}

type collectionSelector struct {
	CollectionID string `json:"collectionId"`
}

type fieldReference struct {
	FieldPath string `json:"fieldPath"`
}

type order struct {
	Field     fieldReference `json:"field"`
	Direction string         `json:"direction"`
}

type filter struct {
	CompositeFilter *compositeFilter `json:"compositeFilter,omitempty"`
	FieldFilter     *fieldFilter     `json:"fieldFilter,omitempty"`
}

type compositeFilter struct {
	Op      string   `json:"op"`
	Filters []filter `json:"filters"`
}

type fieldFilter struct {
	Field fieldReference `json:"field"`
	Op    string         `json:"op"`
	Value value          `json:"value"`
}

type runQueryResponse struct {
	Document *document `json:"document,omitempty"`
}

// newQuery selects the whole collection ordered by time.
func newQuery() runQueryRequest {
	return runQueryRequest{StructuredQuery: structuredQuery{
		From:    []collectionSelector{{CollectionID: Collection}},
		OrderBy: []order{{Field: fieldReference{FieldPath: "time"}, Direction: "ASCENDING"}},
	}}
}

func timeFilter(op string, t time.Time) filter {
	return filter{FieldFilter: &fieldFilter{
		Field: fieldReference{FieldPath: "time"},
		Op:    op,
		Value: timestamp(t),
	}}
}

func timestamp(t time.Time) value {
	s := t.UTC().Format(time.RFC3339Nano)
	return value{TimestampValue: &s}
}

func nullable(s *string) value {
	if s == nil {
		null := json.RawMessage("null")
		return value{NullValue: &null}
	}
	return value{StringValue: s}
}

func encode(c model.Checkpoint) document {
	registered := c.Registered
	return document{Fields: map[string]value{
		"time":       timestamp(c.Time),
		"project":    nullable(c.Project),
		"message":    nullable(c.Message),
		"registered": {BooleanValue: &registered},
	}}
}

// decode reads a document. Times stored as strings by older clients are
// accepted as well.
func decode(doc document) (model.Checkpoint, error) {
	id := path.Base(doc.Name)
	raw := doc.Fields["time"]
	ts := raw.TimestampValue
	if ts == nil {
		ts = raw.StringValue
	}
	if ts == nil {
		return model.Checkpoint{}, fmt.Errorf("document %s has no time", id)
	}
	t, err := time.Parse(time.RFC3339Nano, *ts)
	if err != nil {
		return model.Checkpoint{}, fmt.Errorf("document %s has invalid time %q: %w", id, *ts, err)
	}

	c := model.New(t).WithID(id)
	c.Project = doc.Fields["project"].StringValue
	c.Message = doc.Fields["message"].StringValue
	if b := doc.Fields["registered"].BooleanValue; b != nil {
		c.Registered = *b
	}
	return c, nil
}
