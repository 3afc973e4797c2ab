// Package model contains the decoded OpenStreetMap entities produced by osmpbf.
package model

import "time"

// Tags maps tag keys to tag values. A nil Tags is an empty tag set.
type Tags map[string]string

// Info holds the optional metadata common to nodes, ways and relations.
//
// Info is only populated when metadata decoding is enabled.
type Info struct {
	Version   int32
	Timestamp time.Time
	Changeset int64
	UID       int32
	User      string
	Visible   bool
}

// Node is a point defined by its latitude and longitude in degrees.
type Node struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags Tags
	Info *Info
}

// Way is an ordered list of node references.
type Way struct {
	ID      int64
	NodeIDs []int64
	Tags    Tags
	Info    *Info
}

// MemberType is the kind of entity a relation member points at.
type MemberType uint8

const (
	// NodeMember denotes that the member is a node.
	NodeMember MemberType = iota
	// WayMember denotes that the member is a way.
	WayMember
	// RelationMember denotes that the member is a relation.
	RelationMember
)

func (t MemberType) String() string {
	switch t {
	case NodeMember:
		return "node"
	case WayMember:
		return "way"
	case RelationMember:
		return "relation"
	default:
		return "unknown"
	}
}

// Member is one entry of a relation.
type Member struct {
	ID   int64
	Type MemberType
	Role string
}

// Relation documents a relationship between nodes, ways and other relations.
type Relation struct {
	ID      int64
	Members []Member
	Tags    Tags
	Info    *Info
}

// Batch holds the entities assembled from one data block, in group order.
type Batch struct {
	Nodes     []Node
	Ways      []Way
	Relations []Relation
}

// Len returns the total number of entities in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}

	return len(b.Nodes) + len(b.Ways) + len(b.Relations)
}
