package schema

import "google.golang.org/protobuf/reflect/protoreflect"

// message reads fields of a dynamic message by name.
//
// Fields missing from the schema read as their zero value, which keeps the
// decoder tolerant of trimmed-down descriptors.
type message struct {
	m protoreflect.Message
}

func (m message) field(name string) protoreflect.FieldDescriptor {
	return m.m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func (m message) has(name string) bool {
	fd := m.field(name)

	return fd != nil && m.m.Has(fd)
}

func (m message) get(name string) (protoreflect.Value, bool) {
	fd := m.field(name)
	if fd == nil {
		return protoreflect.Value{}, false
	}

	return m.m.Get(fd), true
}

func (m message) int(name string) int64 {
	if v, ok := m.get(name); ok {
		return v.Int()
	}

	return 0
}

func (m message) uint(name string) uint64 {
	if v, ok := m.get(name); ok {
		return v.Uint()
	}

	return 0
}

func (m message) bool(name string) bool {
	if v, ok := m.get(name); ok {
		return v.Bool()
	}

	return false
}

func (m message) str(name string) string {
	if v, ok := m.get(name); ok {
		return v.String()
	}

	return ""
}

func (m message) bytes(name string) []byte {
	if v, ok := m.get(name); ok {
		return v.Bytes()
	}

	return nil
}

func (m message) list(name string) (protoreflect.List, protoreflect.Kind) {
	fd := m.field(name)
	if fd == nil || !fd.IsList() || !m.m.Has(fd) {
		return nil, 0
	}

	return m.m.Get(fd).List(), fd.Kind()
}

func (m message) message(name string) (message, bool) {
	fd := m.field(name)
	if fd == nil || fd.Message() == nil || fd.IsList() || !m.m.Has(fd) {
		return message{}, false
	}

	return message{m: m.m.Get(fd).Message()}, true
}

func (m message) messages(name string) []message {
	l, kind := m.list(name)
	if l == nil || (kind != protoreflect.MessageKind && kind != protoreflect.GroupKind) {
		return nil
	}

	out := make([]message, l.Len())
	for i := range out {
		out[i] = message{m: l.Get(i).Message()}
	}

	return out
}

func (m message) int64s(name string) []int64 {
	l, kind := m.list(name)
	if l == nil {
		return nil
	}

	out := make([]int64, l.Len())
	for i := range out {
		out[i] = scalar(l.Get(i), kind)
	}

	return out
}

func (m message) int32s(name string) []int32 {
	l, kind := m.list(name)
	if l == nil {
		return nil
	}

	out := make([]int32, l.Len())
	for i := range out {
		out[i] = int32(scalar(l.Get(i), kind)) //nolint:gosec
	}

	return out
}

func (m message) uint32s(name string) []uint32 {
	l, kind := m.list(name)
	if l == nil {
		return nil
	}

	out := make([]uint32, l.Len())
	for i := range out {
		out[i] = uint32(scalar(l.Get(i), kind)) //nolint:gosec
	}

	return out
}

func (m message) bools(name string) []bool {
	l, kind := m.list(name)
	if l == nil || kind != protoreflect.BoolKind {
		return nil
	}

	out := make([]bool, l.Len())
	for i := range out {
		out[i] = l.Get(i).Bool()
	}

	return out
}

func (m message) strs(name string) []string {
	l, kind := m.list(name)
	if l == nil || kind != protoreflect.StringKind {
		return nil
	}

	out := make([]string, l.Len())
	for i := range out {
		out[i] = l.Get(i).String()
	}

	return out
}

func (m message) byteSlices(name string) [][]byte {
	l, kind := m.list(name)
	if l == nil || kind != protoreflect.BytesKind {
		return nil
	}

	out := make([][]byte, l.Len())
	for i := range out {
		out[i] = l.Get(i).Bytes()
	}

	return out
}

// scalar widens an integer list element to int64 according to its wire kind.
func scalar(v protoreflect.Value, kind protoreflect.Kind) int64 {
	switch kind {
	case protoreflect.EnumKind:
		return int64(v.Enum())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind, protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return int64(v.Uint()) //nolint:gosec
	case protoreflect.BoolKind:
		if v.Bool() {
			return 1
		}

		return 0
	default:
		return v.Int()
	}
}
