// Package wire implements the compact preorder binary encoding for a
// tree.Tree, plus the fixed-width country-code table format and an
// optional deflate compression envelope. Grounded on serialize.py's
// TreeSerializer/TreeDeserializer, with the outer compression switched
// from Python's zlib to github.com/klauspost/compress/flate: both produce
// a standard deflate stream, klauspost's is simply faster, and the rest
// of this module already depends on it for nothing else, so it is the one
// real deflate implementation in the dependency graph worth exercising.
package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/quantize"
	"github.com/skibsted/adm0reverse/tree"
)

const (
	tagInternal byte = 0x00
	tagLeaf     byte = 0x01
)

const maxVarintBytes = 10 // enough for any uint64; guards against a corrupt, unbounded stream

// Serialize encodes tr's node tree in preorder: tag byte `0x01` + canonical
// LEB128 varint for a leaf, tag byte `0x00` + 4-bit presence byte +
// present children (NW, NE, SW, SE order) for an internal node. Bounds and
// precision are not part of the encoding; a decoder is handed them
// out-of-band (the codegen package embeds them as plain Go literals).
func Serialize(tr *tree.Tree) []byte {
	buf := make([]byte, 0, 1024)
	buf = serializeNode(tr.Root, buf)
	return buf
}

func serializeNode(n *tree.Node, buf []byte) []byte {
	if n.Leaf {
		buf = append(buf, tagLeaf)
		return appendVarint(buf, uint64(n.Country))
	}

	buf = append(buf, tagInternal)
	var presence byte
	for i, c := range n.Children {
		if c != nil {
			presence |= 1 << uint(i)
		}
	}
	buf = append(buf, presence)
	for _, c := range n.Children {
		if c != nil {
			buf = serializeNode(c, buf)
		}
	}
	return buf
}

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// Deserialize decodes the preorder encoding Serialize produces, rebuilding
// a tree.Tree against the given bounds and precision. It rejects, with a
// plain error rather than a panic, any structurally invalid stream:
// truncated data, an oversized or non-canonical varint, a presence byte
// with reserved (upper 4) bits set, a wasted internal node (fewer than 2
// children present), or trailing bytes after the root node completes.
func Deserialize(data []byte, bounds geom.Rectangle, precision int) (tr *tree.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			tr = nil
			err = fmt.Errorf("wire: %v", r)
		}
	}()

	d := &decoder{data: data}
	root := d.node()
	if d.pos != len(d.data) {
		panic(fmt.Sprintf("trailing bytes after root node: %d unread of %d", len(d.data)-d.pos, len(d.data)))
	}
	return tree.New(root, bounds, precision), nil
}

// DeserializeCoords is a convenience wrapper computing bounds from
// precision via quantize.GridDimensions.
func DeserializeCoords(data []byte, precision int) (*tree.Tree, error) {
	maxIlon, maxIlat := quantize.GridDimensions(precision)
	bounds, err := geom.New(0, maxIlon, 0, maxIlat)
	if err != nil {
		return nil, fmt.Errorf("wire: computing bounds: %w", err)
	}
	return Deserialize(data, bounds, precision)
}

// decoder walks data once, left to right. Every error path panics with a
// plain string; Deserialize is the only place that recovers, so internal
// helpers (and recursive calls into node/leaf/internal) can stay simple.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) readByte() byte {
	if d.pos >= len(d.data) {
		panic("unexpected end of data")
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *decoder) readVarint() uint64 {
	var result uint64
	var shift uint
	var lastByte byte
	for i := 0; ; i++ {
		if i >= maxVarintBytes {
			panic("oversized varint")
		}
		b := d.readByte()
		lastByte = b
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	// Canonical form: the final byte (no continuation bit) must not be a
	// zero-valued padding byte following at least one other byte, i.e. the
	// encoding must be the shortest possible for the value.
	if shift > 0 && lastByte == 0 {
		panic("non-canonical varint: trailing zero byte")
	}
	return result
}

func (d *decoder) node() *tree.Node {
	tag := d.readByte()
	switch tag {
	case tagLeaf:
		return tree.NewLeaf(tree.CountryID(d.readVarint()))
	case tagInternal:
		presence := d.readByte()
		if presence&0xf0 != 0 {
			panic(fmt.Sprintf("reserved bits set in presence byte: 0x%02x", presence))
		}
		present := 0
		var children [4]*tree.Node
		for i := 0; i < 4; i++ {
			if presence&(1<<uint(i)) != 0 {
				children[i] = d.node()
				present++
			}
		}
		if present < 2 {
			panic(fmt.Sprintf("internal node with only %d present children", present))
		}
		return tree.NewInternal(children)
	default:
		panic(fmt.Sprintf("unknown tag byte 0x%02x", tag))
	}
}

// Compress wraps data in a deflate stream at the best-compression level,
// for the optional outer envelope spec.md describes.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("wire: creating deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("wire: deflating: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("wire: closing deflate writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress. It is the caller's responsibility to know
// whether a blob is compressed; the wire format carries no envelope flag
// of its own (codegen records that decision alongside the blob).
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wire: inflating: %w", err)
	}
	return out, nil
}
