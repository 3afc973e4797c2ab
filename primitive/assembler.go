package primitive

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/osmpbf/encoding"
	"github.com/arloliu/osmpbf/errs"
	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/internal/options"
	"github.com/arloliu/osmpbf/model"
	"github.com/arloliu/osmpbf/schema"
)

// Assembler converts decoded primitive blocks into entity batches.
//
// An Assembler holds configuration only and is safe for concurrent use.
type Assembler struct {
	legacyOffsets bool
	metadata      bool
	logger        *slog.Logger
}

// Option configures an Assembler.
type Option = options.Option[*Assembler]

// WithLegacyOffsets adds lat_offset and lon_offset as raw integers to the
// scaled coordinate, as some older readers did. Disabled by default.
func WithLegacyOffsets(enabled bool) Option {
	return options.NoError(func(a *Assembler) {
		a.legacyOffsets = enabled
	})
}

// WithMetadata enables decoding of entity metadata (version, timestamp,
// changeset, uid, user, visible). Disabled by default.
func WithMetadata(enabled bool) Option {
	return options.NoError(func(a *Assembler) {
		a.metadata = enabled
	})
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(a *Assembler) error {
		if logger == nil {
			return errors.New("primitive: nil logger")
		}
		a.logger = logger

		return nil
	})
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...Option) (*Assembler, error) {
	a := &Assembler{logger: slog.New(slog.DiscardHandler)}
	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	return a, nil
}

// Assemble converts every group of block, preserving group and entity order.
//
// Parameters:
//   - block: Decoded primitive block
//
// Returns:
//   - *model.Batch: Entities of the block
//   - error: An errs.ErrFormat class error for inconsistent columns, bad string
//     indices, unknown member types or an invalid granularity
func (a *Assembler) Assemble(block *schema.PrimitiveBlock) (*model.Batch, error) {
	coords, err := NewCoordinates(block, a.legacyOffsets)
	if err != nil {
		return nil, err
	}

	strings := NewStringTable(block.StringTable)

	var info *InfoDecoder
	if a.metadata {
		if info, err = NewInfoDecoder(strings, block.DateGranularity); err != nil {
			return nil, err
		}
	}

	b := &blockAssembler{strings: strings, coords: coords, info: info}
	batch := &model.Batch{}
	for i := range block.Groups {
		group := &block.Groups[i]
		if err := b.group(batch, group); err != nil {
			return nil, fmt.Errorf("primitive group %d: %w", i, err)
		}
		a.logger.Debug("assembled group", "index", i, "kind", group.Kind)
	}

	return batch, nil
}

// blockAssembler holds the per-block state shared by all groups.
type blockAssembler struct {
	strings StringTable
	coords  Coordinates
	info    *InfoDecoder
}

func (b *blockAssembler) group(batch *model.Batch, g *schema.PrimitiveGroup) error {
	switch g.Kind {
	case format.GroupEmpty:
		return nil
	case format.GroupDense:
		nodes, err := NewDenseNodeDecoder(b.strings, b.coords, b.info).Decode(g.Dense)
		if err != nil {
			return err
		}
		batch.Nodes = append(batch.Nodes, nodes...)
	case format.GroupNodes:
		for i := range g.Nodes {
			node, err := b.node(&g.Nodes[i])
			if err != nil {
				return fmt.Errorf("node %d: %w", g.Nodes[i].ID, err)
			}
			batch.Nodes = append(batch.Nodes, node)
		}
	case format.GroupWays:
		for i := range g.Ways {
			way, err := b.way(&g.Ways[i])
			if err != nil {
				return fmt.Errorf("way %d: %w", g.Ways[i].ID, err)
			}
			batch.Ways = append(batch.Ways, way)
		}
	case format.GroupRelations:
		for i := range g.Relations {
			rel, err := b.relation(&g.Relations[i])
			if err != nil {
				return fmt.Errorf("relation %d: %w", g.Relations[i].ID, err)
			}
			batch.Relations = append(batch.Relations, rel)
		}
	default:
		return fmt.Errorf("%w: unknown group kind %s", errs.ErrFormat, g.Kind)
	}

	return nil
}

func (b *blockAssembler) node(n *schema.Node) (model.Node, error) {
	tags, err := b.tags(n.Keys, n.Vals)
	if err != nil {
		return model.Node{}, err
	}

	info, err := b.entityInfo(n.Info)
	if err != nil {
		return model.Node{}, err
	}

	return model.Node{
		ID:   n.ID,
		Lat:  b.coords.Lat(n.Lat),
		Lon:  b.coords.Lon(n.Lon),
		Tags: tags,
		Info: info,
	}, nil
}

func (b *blockAssembler) way(w *schema.Way) (model.Way, error) {
	tags, err := b.tags(w.Keys, w.Vals)
	if err != nil {
		return model.Way{}, err
	}

	info, err := b.entityInfo(w.Info)
	if err != nil {
		return model.Way{}, err
	}

	return model.Way{
		ID:      w.ID,
		NodeIDs: encoding.DecodeDelta(w.Refs),
		Tags:    tags,
		Info:    info,
	}, nil
}

func (b *blockAssembler) relation(r *schema.Relation) (model.Relation, error) {
	n := len(r.MemIDs)
	if len(r.RolesSID) != n || len(r.Types) != n {
		return model.Relation{}, fmt.Errorf("%w: memids=%d roles_sid=%d types=%d",
			errs.ErrColumnLength, n, len(r.RolesSID), len(r.Types))
	}

	tags, err := b.tags(r.Keys, r.Vals)
	if err != nil {
		return model.Relation{}, err
	}

	info, err := b.entityInfo(r.Info)
	if err != nil {
		return model.Relation{}, err
	}

	var ids encoding.DeltaDecoder
	members := make([]model.Member, n)
	for i := range n {
		typ := r.Types[i]
		if typ < int32(model.NodeMember) || typ > int32(model.RelationMember) {
			return model.Relation{}, fmt.Errorf("%w: %d at member %d", errs.ErrInvalidMemberType, typ, i)
		}

		role, err := b.strings.Lookup(int64(r.RolesSID[i]))
		if err != nil {
			return model.Relation{}, fmt.Errorf("member %d role: %w", i, err)
		}

		members[i] = model.Member{
			ID:   ids.Next(r.MemIDs[i]),
			Type: model.MemberType(typ), //nolint:gosec
			Role: role,
		}
	}

	return model.Relation{ID: r.ID, Members: members, Tags: tags, Info: info}, nil
}

// tags resolves parallel key and value index arrays.
func (b *blockAssembler) tags(keys, vals []uint32) (model.Tags, error) {
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("%w: keys=%d vals=%d", errs.ErrColumnLength, len(keys), len(vals))
	}
	if len(keys) == 0 {
		return nil, nil
	}

	tags := make(model.Tags, len(keys))
	for i := range keys {
		if err := b.strings.tag(tags, int64(keys[i]), int64(vals[i])); err != nil {
			return nil, err
		}
	}

	return tags, nil
}

func (b *blockAssembler) entityInfo(info *schema.Info) (*model.Info, error) {
	if b.info == nil {
		return nil, nil
	}

	return b.info.Decode(info)
}
