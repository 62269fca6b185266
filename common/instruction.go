package common

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Handler executes one instruction of the program: the first byte of data is
// the operation tag, records are ordered as documented per operation.
type Handler interface {
	Process(env *Env, records []Address, data []byte) error
}

// Instruction is a call of one program: the records it touches in the
// documented order and the tagged argument bytes.
type Instruction struct {
	Program Address
	Records []Address
	Data    []byte
}

// SplitTag separates operation tag from argument bytes.
func SplitTag(data []byte) (byte, []byte, error) {
	if len(data) == 0 {
		return 0, nil, fmt.Errorf("%w: empty instruction", ErrInvalidInstruction)
	}
	return data[0], data[1:], nil
}

// DecodeArgs decodes argument structure from the instruction bytes. Unlike
// records, arguments are a strict contract: trailing bytes are rejected.
func DecodeArgs(data []byte, v io.Serializable) error {
	buf := bytes.NewReader(data)
	r := io.NewBinReaderFromIO(buf)
	v.DecodeBinary(r)
	if r.Err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, r.Err)
	}
	if buf.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidInstruction, buf.Len())
	}
	return nil
}

// EncodeInstruction prepends tag to serialized arguments.
func EncodeInstruction(tag byte, args io.Serializable) ([]byte, error) {
	w := io.NewBufBinWriter()
	w.WriteB(tag)
	args.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// BindRecords assigns passed record addresses to dst in order. The number of
// records must match exactly.
func BindRecords(records []Address, dst ...*Address) error {
	if len(records) != len(dst) {
		return fmt.Errorf("%w: expected %d, got %d", ErrRecordCount, len(dst), len(records))
	}
	for i := range dst {
		*dst[i] = records[i]
	}
	return nil
}

// NoArgs is the argument structure of operations without arguments.
type NoArgs struct{}

// EncodeBinary implements io.Serializable.
func (NoArgs) EncodeBinary(*io.BinWriter) {}

// DecodeBinary implements io.Serializable.
func (*NoArgs) DecodeBinary(*io.BinReader) {}
