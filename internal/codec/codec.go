// Package codec converts snapshots to and from their file representations.
//
// Decoding is the only place structural validation happens: a document missing
// required fields fails with ErrInvalidSnapshot before it can reach the history.
// Documents saved before the component-type registry existed (a bare
// {nodes, links, groups} diagram, or a wrapped diagram without component_types)
// receive the default registry.
//
// Transient view flags (external ghosts, boundary links, pinned layout output)
// are never written.
package codec

import (
	"errors"
	"fmt"
	"io"

	"gridview/internal/domain"
)

// ErrInvalidSnapshot is returned when a document is structurally invalid
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ErrMalformed is returned when a document cannot be parsed at all
var ErrMalformed = errors.New("malformed document")

// ErrUnknownFormat is returned by ForFormat for names other than json and yaml
var ErrUnknownFormat = errors.New("unsupported format")

// FormatVersion is written into every exported document
const FormatVersion = 1

// Decoder reads a snapshot from a document
type Decoder interface {
	Decode(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Encoder writes a snapshot as a document
type Encoder interface {
	Encode(snapshot *domain.Snapshot, w io.Writer) error
	Format() string
}

// Codec is both a Decoder and an Encoder
type Codec interface {
	Decoder
	Encoder
}

// ForFormat returns the codec registered for a format name
func ForFormat(format string) (Codec, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// document is the wire shape shared by the JSON and YAML codecs
type document struct {
	Version        int             `json:"version,omitempty" yaml:"version,omitempty"`
	Diagram        *wireDiagram    `json:"diagram,omitempty" yaml:"diagram,omitempty"`
	ComponentTypes []wireComponent `json:"component_types" yaml:"component_types"`

	// Legacy documents carry the diagram at the top level
	Nodes  []wireNode  `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Links  []wireLink  `json:"links,omitempty" yaml:"links,omitempty"`
	Groups []wireGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type wireDiagram struct {
	Nodes  []wireNode  `json:"nodes" yaml:"nodes"`
	Links  []wireLink  `json:"links" yaml:"links"`
	Groups []wireGroup `json:"groups" yaml:"groups"`
}

type wireNode struct {
	ID         string           `json:"id" yaml:"id"`
	Type       string           `json:"type" yaml:"type"`
	Label      string           `json:"label" yaml:"label"`
	Properties map[string]any   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Position   *domain.Position `json:"position,omitempty" yaml:"position,omitempty"`
}

type wireLink struct {
	Source     string         `json:"source" yaml:"source"`
	Target     string         `json:"target" yaml:"target"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type wireGroup struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Members []string `json:"members" yaml:"members"`
}

type wireComponent struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
}

// toDocument converts a snapshot to its wire form
func toDocument(s *domain.Snapshot) *document {
	d := s.Diagram()
	wd := &wireDiagram{
		Nodes:  make([]wireNode, 0, len(d.Nodes)),
		Links:  make([]wireLink, 0, len(d.Links)),
		Groups: make([]wireGroup, 0, len(d.Groups)),
	}
	for _, n := range d.Nodes {
		wd.Nodes = append(wd.Nodes, wireNode{
			ID:         n.ID,
			Type:       string(n.Type),
			Label:      n.Label,
			Properties: n.Properties,
			Position:   n.Position,
		})
	}
	for _, l := range d.Links {
		wd.Links = append(wd.Links, wireLink{
			Source:     l.Source,
			Target:     l.Target,
			Properties: l.Properties,
		})
	}
	for _, g := range d.Groups {
		members := g.Members
		if members == nil {
			members = []string{}
		}
		wd.Groups = append(wd.Groups, wireGroup{ID: g.ID, Label: g.Label, Members: members})
	}

	types := s.Registry().Types
	wc := make([]wireComponent, 0, len(types))
	for _, ct := range types {
		wc = append(wc, wireComponent{Type: string(ct.Type), Label: ct.Label})
	}

	return &document{
		Version:        FormatVersion,
		Diagram:        wd,
		ComponentTypes: wc,
	}
}

// fromDocument validates a decoded document and builds a snapshot
func fromDocument(doc *document) (*domain.Snapshot, error) {
	wd := doc.Diagram
	if wd == nil {
		wd = &wireDiagram{Nodes: doc.Nodes, Links: doc.Links, Groups: doc.Groups}
	}

	diagram := domain.NewDiagram()
	seen := make(map[string]bool, len(wd.Nodes))
	for i, wn := range wd.Nodes {
		if wn.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidSnapshot, i)
		}
		if seen[wn.ID] {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidSnapshot, wn.ID)
		}
		seen[wn.ID] = true
		diagram.Nodes = append(diagram.Nodes, domain.Node{
			ID:         wn.ID,
			Type:       domain.NodeType(wn.Type),
			Label:      wn.Label,
			Properties: wn.Properties,
			Position:   wn.Position,
		})
	}
	for i, wl := range wd.Links {
		if wl.Source == "" || wl.Target == "" {
			return nil, fmt.Errorf("%w: link %d is missing an endpoint", ErrInvalidSnapshot, i)
		}
		diagram.Links = append(diagram.Links, domain.Link{
			Source:     wl.Source,
			Target:     wl.Target,
			Properties: wl.Properties,
		})
	}
	for i, wg := range wd.Groups {
		if wg.ID == "" {
			return nil, fmt.Errorf("%w: group %d has no id", ErrInvalidSnapshot, i)
		}
		members := wg.Members
		if members == nil {
			members = []string{}
		}
		diagram.Groups = append(diagram.Groups, domain.Group{ID: wg.ID, Label: wg.Label, Members: members})
	}

	var registry *domain.ComponentTypeRegistry
	if doc.ComponentTypes != nil {
		registry = &domain.ComponentTypeRegistry{Types: make([]domain.ComponentType, 0, len(doc.ComponentTypes))}
		for i, wc := range doc.ComponentTypes {
			if wc.Type == "" {
				return nil, fmt.Errorf("%w: component type %d has no type", ErrInvalidSnapshot, i)
			}
			registry.Types = append(registry.Types, domain.ComponentType{
				Type:  domain.NodeType(wc.Type),
				Label: wc.Label,
			})
		}
	}

	return domain.NewSnapshot(diagram, registry), nil
}
