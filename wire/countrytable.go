package wire

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/skibsted/adm0reverse/oracle"
)

// OceanSentinel is the fixed-width code written for oracle.OceanID when no
// caller-supplied sentinel is present in the table being encoded.
const OceanSentinel = "---"

// EncodeCountryTable lays out codes in spec.md's fixed-width format:
//
//	byte 0:       code_length, 2 or 3
//	bytes 1..2:   entry count N, u16 little-endian
//	N entries:    u16 id, then code_length ASCII bytes (space-padded/truncated)
//
// sorted by ascending id. codeLength must be 2 or 3.
func EncodeCountryTable(codes map[oracle.CountryID]string, codeLength int) ([]byte, error) {
	if codeLength != 2 && codeLength != 3 {
		return nil, fmt.Errorf("wire: code_length must be 2 or 3, got %d", codeLength)
	}
	if _, ok := codes[oracle.OceanID]; !ok {
		withOcean := make(map[oracle.CountryID]string, len(codes)+1)
		for id, code := range codes {
			withOcean[id] = code
		}
		withOcean[oracle.OceanID] = OceanSentinel
		codes = withOcean
	}
	if len(codes) > 0xffff {
		return nil, fmt.Errorf("wire: country table has %d entries, exceeds u16 count", len(codes))
	}

	ids := make([]oracle.CountryID, 0, len(codes))
	for id := range codes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := make([]byte, 0, 3+len(ids)*(2+codeLength))
	buf = append(buf, byte(codeLength))
	buf = append(buf, 0, 0)
	binary.LittleEndian.PutUint16(buf[1:3], uint16(len(ids)))

	for _, id := range ids {
		if id > 0xffff {
			return nil, fmt.Errorf("wire: country id %d exceeds u16 range", id)
		}
		var idBytes [2]byte
		binary.LittleEndian.PutUint16(idBytes[:], uint16(id))
		buf = append(buf, idBytes[:]...)
		buf = append(buf, fixedWidthASCII(codes[id], codeLength)...)
	}
	return buf, nil
}

func fixedWidthASCII(code string, codeLength int) []byte {
	out := make([]byte, codeLength)
	for i := range out {
		out[i] = ' '
	}
	copy(out, code[:min(len(code), codeLength)])
	return out
}

// DecodeCountryTable is the inverse of EncodeCountryTable. Space padding is
// trimmed from the right of each code on the way out.
func DecodeCountryTable(data []byte) (map[oracle.CountryID]string, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("wire: country table truncated: need at least 3 bytes, got %d", len(data))
	}
	codeLength := int(data[0])
	if codeLength != 2 && codeLength != 3 {
		return nil, fmt.Errorf("wire: country table has invalid code_length %d", codeLength)
	}
	count := int(binary.LittleEndian.Uint16(data[1:3]))

	entrySize := 2 + codeLength
	want := 3 + count*entrySize
	if len(data) != want {
		return nil, fmt.Errorf("wire: country table has %d bytes, expected %d for %d entries of code_length %d", len(data), want, count, codeLength)
	}

	codes := make(map[oracle.CountryID]string, count)
	pos := 3
	for i := 0; i < count; i++ {
		id := oracle.CountryID(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		raw := data[pos : pos+codeLength]
		pos += codeLength
		codes[id] = trimTrailingSpaces(string(raw))
	}
	return codes, nil
}

func trimTrailingSpaces(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}
