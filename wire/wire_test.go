package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skibsted/adm0reverse/geom"
	"github.com/skibsted/adm0reverse/oracle"
	"github.com/skibsted/adm0reverse/tree"
	"github.com/skibsted/adm0reverse/wire"
)

func testBounds(t *testing.T) geom.Rectangle {
	t.Helper()
	b, err := geom.New(0, 360, 0, 180)
	require.NoError(t, err)
	return b
}

// S6: a root Internal with four present Leaves {1,2,3,4} encodes as
// 00 0F 01 01 01 02 01 03 01 04 (10 bytes, uncompressed).
func TestSerialize_S6ExactShape(t *testing.T) {
	root := tree.NewInternal([4]*tree.Node{
		geom.NW: tree.NewLeaf(1),
		geom.NE: tree.NewLeaf(2),
		geom.SW: tree.NewLeaf(3),
		geom.SE: tree.NewLeaf(4),
	})
	tr := tree.New(root, testBounds(t), 0)

	data := wire.Serialize(tr)
	assert.Equal(t, []byte{0x00, 0x0F, 0x01, 0x01, 0x01, 0x02, 0x01, 0x03, 0x01, 0x04}, data)
}

// S1: a single leaf with country 7 serializes as tag + varint(7), 2 bytes.
func TestSerialize_SingleLeafTwoBytes(t *testing.T) {
	tr := tree.New(tree.NewLeaf(7), testBounds(t), 0)
	data := wire.Serialize(tr)
	assert.Equal(t, []byte{0x01, 0x07}, data)
}

func TestSerialize_MultiByteVarint(t *testing.T) {
	tr := tree.New(tree.NewLeaf(300), testBounds(t), 0)
	data := wire.Serialize(tr)
	// 300 = 0b1_0010_1100 -> low 7 bits 0101100 with continuation, then 10.
	assert.Equal(t, []byte{0x01, 0xAC, 0x02}, data)
}

func TestRoundTrip_VariousShapes(t *testing.T) {
	shapes := []*tree.Node{
		tree.NewLeaf(0),
		tree.NewLeaf(65535),
		tree.NewInternal([4]*tree.Node{
			geom.NW: tree.NewLeaf(1),
			geom.SW: tree.NewLeaf(2),
		}),
		tree.NewInternal([4]*tree.Node{
			geom.NW: tree.NewInternal([4]*tree.Node{
				geom.SW: tree.NewLeaf(9),
				geom.SE: tree.NewLeaf(10),
			}),
			geom.SW: tree.NewLeaf(1),
			geom.SE: tree.NewLeaf(2),
		}),
	}

	for i, root := range shapes {
		tr := tree.New(root, testBounds(t), 0)
		data := wire.Serialize(tr)
		got, err := wire.Deserialize(data, testBounds(t), 0)
		require.NoError(t, err, "shape %d", i)
		assertNodesEqual(t, root, got.Root)
	}
}

func TestRoundTrip_ThroughCompression(t *testing.T) {
	root := tree.NewInternal([4]*tree.Node{
		geom.NW: tree.NewLeaf(1),
		geom.NE: tree.NewLeaf(2),
		geom.SW: tree.NewLeaf(3),
		geom.SE: tree.NewLeaf(4),
	})
	tr := tree.New(root, testBounds(t), 0)

	data := wire.Serialize(tr)
	compressed, err := wire.Compress(data)
	require.NoError(t, err)

	decompressed, err := wire.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestDeserialize_RejectsTrailingBytes(t *testing.T) {
	data := []byte{0x01, 0x07, 0xFF}
	_, err := wire.Deserialize(data, testBounds(t), 0)
	assert.Error(t, err)
}

func TestDeserialize_RejectsTruncatedVarint(t *testing.T) {
	data := []byte{0x01, 0x80}
	_, err := wire.Deserialize(data, testBounds(t), 0)
	assert.Error(t, err)
}

func TestDeserialize_RejectsReservedPresenceBits(t *testing.T) {
	data := []byte{0x00, 0xF3, 0x01, 0x01, 0x01, 0x02}
	_, err := wire.Deserialize(data, testBounds(t), 0)
	assert.Error(t, err)
}

func TestDeserialize_RejectsWastedSplit(t *testing.T) {
	// presence byte 0x01: only one child present, which NewInternal (and
	// therefore the decoder) must reject.
	data := []byte{0x00, 0x01, 0x01, 0x07}
	_, err := wire.Deserialize(data, testBounds(t), 0)
	assert.Error(t, err)
}

func TestDeserialize_RejectsEmptyStream(t *testing.T) {
	_, err := wire.Deserialize(nil, testBounds(t), 0)
	assert.Error(t, err)
}

func TestDeserialize_RejectsUnknownTag(t *testing.T) {
	data := []byte{0x02}
	_, err := wire.Deserialize(data, testBounds(t), 0)
	assert.Error(t, err)
}

func TestCountryTable_RoundTrip(t *testing.T) {
	for _, codeLength := range []int{2, 3} {
		codes := map[oracle.CountryID]string{
			oracle.OceanID: wire.OceanSentinel[:codeLength],
			1:              "US"[:min2(codeLength, 2)],
			7:              "ZZZ"[:codeLength],
		}
		data, err := wire.EncodeCountryTable(codes, codeLength)
		require.NoError(t, err)
		assert.Equal(t, byte(codeLength), data[0])

		got, err := wire.DecodeCountryTable(data)
		require.NoError(t, err)
		assert.Equal(t, len(codes), len(got))
		for id, code := range codes {
			assert.Equal(t, code, got[id])
		}
	}
}

func TestCountryTable_PadsAndTruncates(t *testing.T) {
	codes := map[oracle.CountryID]string{1: "U", 2: "USAX"}
	data, err := wire.EncodeCountryTable(codes, 3)
	require.NoError(t, err)

	got, err := wire.DecodeCountryTable(data)
	require.NoError(t, err)
	assert.Equal(t, "U", got[1])
	assert.Equal(t, "USA", got[2])
}

func TestCountryTable_RejectsBadCodeLength(t *testing.T) {
	_, err := wire.EncodeCountryTable(map[oracle.CountryID]string{1: "US"}, 4)
	assert.Error(t, err)
}

func TestCountryTable_RejectsTruncatedBlob(t *testing.T) {
	_, err := wire.DecodeCountryTable([]byte{0x02, 0x01, 0x00})
	assert.Error(t, err)
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func assertNodesEqual(t *testing.T, want, got *tree.Node) {
	t.Helper()
	require.Equal(t, want.Leaf, got.Leaf)
	if want.Leaf {
		assert.Equal(t, want.Country, got.Country)
		return
	}
	for i := range want.Children {
		if want.Children[i] == nil {
			assert.Nil(t, got.Children[i])
			continue
		}
		require.NotNil(t, got.Children[i])
		assertNodesEqual(t, want.Children[i], got.Children[i])
	}
}
