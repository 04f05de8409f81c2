package safe_treasury

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Readers walk account data through a Borsh decoder in strict field order.
// Every read error means the buffer is not in the expected shape; callers
// report the record as absent rather than aborting sibling decodes.

func readPublicKey(decoder *bin.Decoder) (solana.PublicKey, error) {
	data, err := decoder.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to read public key: %w", err)
	}
	return solana.PublicKeyFromBytes(data), nil
}

func readHash32(decoder *bin.Decoder) ([32]byte, error) {
	var hash [32]byte
	data, err := decoder.ReadNBytes(32)
	if err != nil {
		return hash, fmt.Errorf("failed to read 32-byte hash: %w", err)
	}
	copy(hash[:], data)
	return hash, nil
}

// readOptionPublicKey consumes the 1-byte option tag and, only when the tag
// is 1, the 32-byte payload. A tag of 0 advances past the tag byte alone.
func readOptionPublicKey(decoder *bin.Decoder) (*solana.PublicKey, error) {
	tag, err := decoder.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read option tag: %w", err)
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		key, err := readPublicKey(decoder)
		if err != nil {
			return nil, err
		}
		return &key, nil
	default:
		return nil, fmt.Errorf("invalid option tag: %d", tag)
	}
}

func readOptionHash32(decoder *bin.Decoder) (*[32]byte, error) {
	tag, err := decoder.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read option tag: %w", err)
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		hash, err := readHash32(decoder)
		if err != nil {
			return nil, err
		}
		return &hash, nil
	default:
		return nil, fmt.Errorf("invalid option tag: %d", tag)
	}
}

// skipBytes discards exactly n bytes. Used for fields the decoder does not
// surface: the widths are load-bearing because every later field offset
// depends on them.
func skipBytes(decoder *bin.Decoder, n int) error {
	if _, err := decoder.ReadNBytes(n); err != nil {
		return fmt.Errorf("failed to skip %d bytes: %w", n, err)
	}
	return nil
}

// Writers build instruction payloads in the program's Borsh wire order.

func writeUint64LE(buf *bytes.Buffer, v uint64) {
	binary.Write(buf, binary.LittleEndian, v)
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

// writeOptionPublicKey encodes a nullable public key as tag 0 (absent) or
// tag 1 followed by 32 raw bytes. Absence is represented as absence: a nil
// value always encodes tag 0, never a sentinel key such as the system
// program.
func writeOptionPublicKey(buf *bytes.Buffer, key *solana.PublicKey) {
	if key == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	buf.Write(key.Bytes())
}

func writeOptionHash32(buf *bytes.Buffer, hash *[32]byte) {
	if hash == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	buf.Write(hash[:])
}

func writeOptionUint8(buf *bytes.Buffer, v *uint8) {
	if v == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	buf.WriteByte(*v)
}
