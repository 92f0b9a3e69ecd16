package graphdb

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
)

// ============================================================================
// Record helpers
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// getOptionalStringFromRecord distinguishes a null value from an empty string
func getOptionalStringFromRecord(record *neo4j.Record, key string) *string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if str, ok := val.(string); ok {
		return &str
	}
	return nil
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getBoolFromRecord(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return false
	}
	b, _ := val.(bool)
	return b
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	return toStringSlice(val)
}

func getMapSliceFromRecord(record *neo4j.Record, key string) []map[string]any {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func getNodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, error) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, fmt.Errorf("record has no node %q", key)
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("value %q is %T, not a node", key, val)
	}
	return node, nil
}

// ============================================================================
// Property helpers
// ============================================================================

func getStringFromMap(m map[string]any, key, defaultValue string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getBoolFromMap(m map[string]any, key string, defaultValue bool) bool {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultValue
}

func getTimeFromMap(m map[string]any, key string) time.Time {
	switch t := m[key].(type) {
	case time.Time:
		return t.UTC()
	case neo4j.LocalDateTime:
		return t.Time().UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func toStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return []string{}
}

// contributorFromMap maps null or malformed values to the unknown contributor
func contributorFromMap(m map[string]any, key string) ids.ContributorID {
	id, err := ids.ParseContributorID(getStringFromMap(m, key, ""))
	if err != nil {
		return ids.UnknownContributor
	}
	return id
}

func observatoryFromMap(m map[string]any, key string) ids.ObservatoryID {
	id, err := ids.ParseObservatoryID(getStringFromMap(m, key, ""))
	if err != nil {
		return ids.UnknownObservatory
	}
	return id
}

func organizationFromMap(m map[string]any, key string) ids.OrganizationID {
	id, err := ids.ParseOrganizationID(getStringFromMap(m, key, ""))
	if err != nil {
		return ids.UnknownOrganization
	}
	return id
}

func thingIDFromMap(m map[string]any, key string) (ids.ThingID, error) {
	return ids.ParseThingID(getStringFromMap(m, key, ""))
}

// ============================================================================
// Encoding
// ============================================================================

type unknowable interface {
	IsUnknown() bool
	String() string
}

// nullableID stores unknown community ids as null
func nullableID(id unknowable) any {
	if id.IsUnknown() {
		return nil
	}
	return id.String()
}

func thingIDStrings(values []ids.ThingID) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// ============================================================================
// Nodes
// ============================================================================

// nodeToThing decodes a node into the variant named by its labels
func nodeToThing(n neo4j.Node) (graph.Thing, error) {
	switch {
	case slices.Contains(n.Labels, "Resource"):
		return nodeToResource(n)
	case slices.Contains(n.Labels, "Predicate"):
		return nodeToPredicate(n)
	case slices.Contains(n.Labels, "Class"):
		return nodeToClass(n)
	case slices.Contains(n.Labels, "Literal"):
		return nodeToLiteral(n)
	default:
		return nil, fmt.Errorf("node %s has no thing label: %v", n.ElementId, n.Labels)
	}
}

func nodeToResource(n neo4j.Node) (graph.Resource, error) {
	id, err := thingIDFromMap(n.Props, "id")
	if err != nil {
		return graph.Resource{}, err
	}
	classIDs, err := ids.ParseThingIDs(toStringSlice(n.Props["classes"]))
	if err != nil {
		return graph.Resource{}, err
	}
	return graph.Resource{
		ID:               id,
		Label:            getStringFromMap(n.Props, "label", ""),
		Classes:          graph.NormalizeClasses(classIDs),
		CreatedAt:        getTimeFromMap(n.Props, "created_at"),
		CreatedBy:        contributorFromMap(n.Props, "created_by"),
		ObservatoryID:    observatoryFromMap(n.Props, "observatory_id"),
		OrganizationID:   organizationFromMap(n.Props, "organization_id"),
		Visibility:       graph.ParseVisibility(getStringFromMap(n.Props, "visibility", "")),
		Verified:         getBoolFromMap(n.Props, "verified", false),
		ExtractionMethod: graph.ParseExtractionMethod(getStringFromMap(n.Props, "extraction_method", "")),
		UnlistedBy:       contributorFromMap(n.Props, "unlisted_by"),
		Modifiable:       getBoolFromMap(n.Props, "modifiable", true),
	}, nil
}

func nodeToPredicate(n neo4j.Node) (graph.Predicate, error) {
	id, err := thingIDFromMap(n.Props, "id")
	if err != nil {
		return graph.Predicate{}, err
	}
	return graph.Predicate{
		ID:         id,
		Label:      getStringFromMap(n.Props, "label", ""),
		CreatedAt:  getTimeFromMap(n.Props, "created_at"),
		CreatedBy:  contributorFromMap(n.Props, "created_by"),
		Modifiable: getBoolFromMap(n.Props, "modifiable", true),
	}, nil
}

func nodeToClass(n neo4j.Node) (graph.Class, error) {
	id, err := thingIDFromMap(n.Props, "id")
	if err != nil {
		return graph.Class{}, err
	}
	return graph.Class{
		ID:         id,
		Label:      getStringFromMap(n.Props, "label", ""),
		URI:        getStringFromMap(n.Props, "uri", ""),
		CreatedAt:  getTimeFromMap(n.Props, "created_at"),
		CreatedBy:  contributorFromMap(n.Props, "created_by"),
		Modifiable: getBoolFromMap(n.Props, "modifiable", true),
	}, nil
}

func nodeToLiteral(n neo4j.Node) (graph.Literal, error) {
	id, err := thingIDFromMap(n.Props, "id")
	if err != nil {
		return graph.Literal{}, err
	}
	return graph.Literal{
		ID:         id,
		Label:      getStringFromMap(n.Props, "label", ""),
		Datatype:   getStringFromMap(n.Props, "datatype", graph.DatatypeString),
		CreatedAt:  getTimeFromMap(n.Props, "created_at"),
		CreatedBy:  contributorFromMap(n.Props, "created_by"),
		Modifiable: getBoolFromMap(n.Props, "modifiable", true),
	}, nil
}

// resourceFrom decodes the resource bound to key in each record
func resourceFrom(key string) func(*neo4j.Record) (graph.Resource, error) {
	return func(record *neo4j.Record) (graph.Resource, error) {
		n, err := getNodeFromRecord(record, key)
		if err != nil {
			return graph.Resource{}, err
		}
		return nodeToResource(n)
	}
}

func statementFromRecord(record *neo4j.Record) (graph.GeneralStatement, error) {
	subjectNode, err := getNodeFromRecord(record, "s")
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	subject, err := nodeToThing(subjectNode)
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	predicateNode, err := getNodeFromRecord(record, "p")
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	predicate, err := nodeToPredicate(predicateNode)
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	objectNode, err := getNodeFromRecord(record, "o")
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	object, err := nodeToThing(objectNode)
	if err != nil {
		return graph.GeneralStatement{}, err
	}

	val, _ := record.Get("r")
	rel, ok := val.(neo4j.Relationship)
	if !ok {
		return graph.GeneralStatement{}, fmt.Errorf("value %q is %T, not a relationship", "r", val)
	}
	id, err := ids.ParseStatementID(getStringFromMap(rel.Props, "id", ""))
	if err != nil {
		return graph.GeneralStatement{}, err
	}
	return graph.GeneralStatement{
		ID:         id,
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		CreatedAt:  getTimeFromMap(rel.Props, "created_at"),
		CreatedBy:  contributorFromMap(rel.Props, "created_by"),
		Modifiable: getBoolFromMap(rel.Props, "modifiable", true),
	}, nil
}

// parseOptionalInt reads numeric literal labels such as a publication year
func parseOptionalInt(s *string) *int {
	if s == nil {
		return nil
	}
	v, err := strconv.Atoi(*s)
	if err != nil {
		return nil
	}
	return &v
}
