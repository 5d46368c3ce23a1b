package paging

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// CompressionType represents the compression algorithm used for an encoded trace
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0
	CompressionLZ4    CompressionType = 1
	CompressionSnappy CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a compression name as used in configuration
func ParseCompression(name string) (CompressionType, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	}
	return CompressionNone, NewPagingError(ErrCodeUnsupportedCompression, "ParseCompression",
		fmt.Sprintf("unsupported compression %q (must be none, lz4, or snappy)", name), nil)
}

// Encoded trace header layout:
// [0-1]: Magic number (0x7ACE)
// [2]: Format version
// [3]: Compression type (0=none, 1=LZ4, 2=Snappy)
// [4-7]: Raw body size
// [8-11]: Payload size
// [12-19]: xxhash64 of the raw body
// [20+]: Payload

const (
	TraceMagic              = 0x7ACE
	TraceFormatVersion      = 1
	TraceHeaderSize         = 20
	MinCompressionThreshold = 16 // Minimum bytes saved to use compression

	// Upper bound on the raw/payload ratio of a compressed body. LZ4 tops
	// out just under 255:1; snappy is far lower.
	maxExpansion = 255
)

// aux tags in the raw body
const (
	auxNone  = 0
	auxFIFO  = 1
	auxLRU   = 2
	auxClock = 3
)

// Fingerprint returns a stable 64-bit hash of the trace contents. Two traces
// have the same fingerprint exactly when they encode to the same bytes.
func Fingerprint(trace *Trace) uint64 {
	return xxhash.Sum64(marshalTrace(trace))
}

// EncodeTrace serializes a trace, compressing the body with the requested
// algorithm. Compression that saves fewer than MinCompressionThreshold bytes
// is dropped and the body is stored as is.
func EncodeTrace(trace *Trace, compressionType CompressionType) ([]byte, error) {
	raw := marshalTrace(trace)

	var payload []byte
	switch compressionType {
	case CompressionNone:
		payload = raw

	case CompressionLZ4:
		payload = make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, payload, nil)
		if err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}
		// n == 0 means the block is incompressible
		payload = payload[:n]
		if n == 0 {
			payload = raw
			compressionType = CompressionNone
		}

	case CompressionSnappy:
		payload = snappy.Encode(nil, raw)

	default:
		return nil, NewPagingError(ErrCodeUnsupportedCompression, "EncodeTrace",
			fmt.Sprintf("unsupported compression type: %d", compressionType), nil)
	}

	if compressionType != CompressionNone && len(raw)-len(payload) < MinCompressionThreshold {
		compressionType = CompressionNone
		payload = raw
	}

	buf := make([]byte, TraceHeaderSize+len(payload))
	binary.LittleEndian.PutUint16(buf[0:2], TraceMagic)
	buf[2] = TraceFormatVersion
	buf[3] = uint8(compressionType)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(raw)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(payload)))
	binary.LittleEndian.PutUint64(buf[12:20], xxhash.Sum64(raw))
	copy(buf[TraceHeaderSize:], payload)

	return buf, nil
}

// DecodeTrace reverses EncodeTrace and verifies the checksum
func DecodeTrace(data []byte) (*Trace, error) {
	const op = "DecodeTrace"

	if len(data) < TraceHeaderSize {
		return nil, errTraceCorrupted(op, fmt.Errorf("data too short for trace header: %d bytes", len(data)))
	}

	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != TraceMagic {
		return nil, errTraceCorrupted(op, fmt.Errorf("invalid magic number: got %04x, expected %04x", magic, TraceMagic))
	}
	if data[2] != TraceFormatVersion {
		return nil, errTraceCorrupted(op, fmt.Errorf("unsupported format version %d", data[2]))
	}

	compressionType := CompressionType(data[3])
	rawSize := binary.LittleEndian.Uint32(data[4:8])
	payloadSize := binary.LittleEndian.Uint32(data[8:12])
	checksum := binary.LittleEndian.Uint64(data[12:20])

	if TraceHeaderSize+int(payloadSize) > len(data) {
		return nil, errTraceCorrupted(op, fmt.Errorf("insufficient data for payload: need %d bytes, have %d",
			TraceHeaderSize+int(payloadSize), len(data)))
	}
	payload := data[TraceHeaderSize : TraceHeaderSize+int(payloadSize)]
	if compressionType != CompressionNone && uint64(rawSize) > uint64(len(payload))*maxExpansion+TraceHeaderSize {
		return nil, errTraceCorrupted(op, fmt.Errorf("raw size %d too large for %d byte payload", rawSize, len(payload)))
	}

	var raw []byte
	switch compressionType {
	case CompressionNone:
		raw = payload

	case CompressionLZ4:
		raw = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, errTraceCorrupted(op, fmt.Errorf("LZ4 decompression failed: %w", err))
		}
		raw = raw[:n]

	case CompressionSnappy:
		if n, err := snappy.DecodedLen(payload); err != nil || n != int(rawSize) {
			return nil, errTraceCorrupted(op, fmt.Errorf("snappy length mismatch: expected %d", rawSize))
		}
		var err error
		raw, err = snappy.Decode(nil, payload)
		if err != nil {
			return nil, errTraceCorrupted(op, fmt.Errorf("snappy decompression failed: %w", err))
		}

	default:
		return nil, NewPagingError(ErrCodeUnsupportedCompression, op,
			fmt.Sprintf("unsupported compression type: %d", compressionType), nil)
	}

	if len(raw) != int(rawSize) {
		return nil, errTraceCorrupted(op, fmt.Errorf("size mismatch: got %d, expected %d", len(raw), rawSize))
	}
	if sum := xxhash.Sum64(raw); sum != checksum {
		return nil, errTraceCorrupted(op, fmt.Errorf("checksum mismatch: got %016x, expected %016x", sum, checksum))
	}

	trace, err := unmarshalTrace(raw)
	if err != nil {
		return nil, errTraceCorrupted(op, err)
	}
	return trace, nil
}

// ChooseBestCompression tries all algorithms and returns the smallest encoding
func ChooseBestCompression(trace *Trace) ([]byte, CompressionType, error) {
	best, bestType := []byte(nil), CompressionNone

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionSnappy} {
		data, err := EncodeTrace(trace, ct)
		if err != nil {
			return nil, CompressionNone, err
		}
		if best == nil || len(data) < len(best) {
			best, bestType = data, CompressionType(data[3])
		}
	}

	return best, bestType, nil
}

// Raw body: policy | frames | step count | steps. Integers are varints.
func marshalTrace(trace *Trace) []byte {
	buf := make([]byte, 0, 16+len(trace.Steps)*(8+3*trace.Frames))

	buf = binary.AppendUvarint(buf, uint64(len(trace.Policy)))
	buf = append(buf, trace.Policy...)
	buf = binary.AppendUvarint(buf, uint64(trace.Frames))
	buf = binary.AppendUvarint(buf, uint64(len(trace.Steps)))

	for i := range trace.Steps {
		s := &trace.Steps[i]
		buf = binary.AppendUvarint(buf, uint64(s.Index))
		buf = binary.AppendUvarint(buf, uint64(s.Page))
		buf = append(buf, byte(s.Action))
		buf = binary.AppendUvarint(buf, uint64(s.Slot))
		buf = binary.AppendVarint(buf, int64(s.Evicted))
		for _, p := range s.Frames {
			buf = binary.AppendVarint(buf, int64(p))
		}

		switch aux := s.Aux.(type) {
		case FIFOState:
			buf = append(buf, auxFIFO)
			buf = binary.AppendUvarint(buf, uint64(aux.Pointer))
		case LRUState:
			buf = append(buf, auxLRU)
			for _, age := range aux.Ages {
				buf = binary.AppendUvarint(buf, uint64(age))
			}
		case ClockState:
			buf = append(buf, auxClock)
			buf = binary.AppendUvarint(buf, uint64(aux.Hand))
			buf = binary.AppendUvarint(buf, uint64(aux.Probes))
			buf = append(buf, aux.Bits...)
		default:
			buf = append(buf, auxNone)
		}
	}

	return buf
}

var errShortBody = errors.New("unexpected end of trace body")

// bodyReader walks a raw body, remembering the first error
type bodyReader struct {
	data []byte
	err  error
}

func (r *bodyReader) uvarint() int {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data)
	if n <= 0 {
		r.err = errShortBody
		return 0
	}
	r.data = r.data[n:]
	return int(v)
}

func (r *bodyReader) varint() int {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.data)
	if n <= 0 {
		r.err = errShortBody
		return 0
	}
	r.data = r.data[n:]
	return int(v)
}

func (r *bodyReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.data) {
		r.err = errShortBody
		return nil
	}
	out := r.data[:n]
	r.data = r.data[n:]
	return out
}

func (r *bodyReader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func unmarshalTrace(raw []byte) (*Trace, error) {
	r := &bodyReader{data: raw}

	policy := Policy(r.take(r.uvarint()))
	frames := r.uvarint()
	count := r.uvarint()
	if r.err != nil {
		return nil, r.err
	}
	if !slices.Contains(Policies, policy) {
		return nil, fmt.Errorf("unknown policy %q", policy)
	}
	if frames < 1 {
		return nil, fmt.Errorf("invalid frame count %d", frames)
	}
	// Every step takes at least one byte per frame
	if count < 0 || (count > 0 && (frames > len(r.data) || count > len(r.data)/frames)) {
		return nil, fmt.Errorf("%d steps of %d frames exceed body size", count, frames)
	}

	trace := newTrace(policy, frames, count)
	for i := 0; i < count && r.err == nil; i++ {
		s := Step{
			Index:   r.uvarint(),
			Page:    r.uvarint(),
			Action:  Action(r.readByte()),
			Slot:    r.uvarint(),
			Evicted: r.varint(),
			Frames:  make([]int, frames),
		}
		for j := range s.Frames {
			s.Frames[j] = r.varint()
		}

		tag := r.readByte()
		if want := auxTag(policy); tag != want {
			return nil, fmt.Errorf("aux tag %d at step %d, %s traces use %d", tag, i, policy, want)
		}
		switch tag {
		case auxFIFO:
			s.Aux = FIFOState{Pointer: r.uvarint()}
		case auxLRU:
			ages := make([]int, frames)
			for j := range ages {
				ages[j] = r.uvarint()
			}
			s.Aux = LRUState{Ages: ages}
		case auxClock:
			cs := ClockState{Hand: r.uvarint(), Probes: r.uvarint()}
			cs.Bits = append([]uint8(nil), r.take(frames)...)
			s.Aux = cs
		}

		if r.err != nil {
			break
		}
		if err := checkStep(&s, i, frames); err != nil {
			return nil, err
		}
		trace.Steps = append(trace.Steps, s)
	}

	if r.err != nil {
		return nil, r.err
	}
	if len(r.data) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after last step", len(r.data))
	}
	return trace, nil
}

// auxTag is the only aux tag a trace of the given policy may carry
func auxTag(policy Policy) byte {
	switch policy {
	case FIFO:
		return auxFIFO
	case LRU:
		return auxLRU
	case Clock:
		return auxClock
	default:
		return auxNone
	}
}

// checkStep rejects a decoded step that no generator could have produced
func checkStep(s *Step, i, frames int) error {
	inRange := func(v int) bool { return v >= 0 && v < frames }

	switch {
	case s.Index != i:
		return fmt.Errorf("step %d carries index %d", i, s.Index)
	case s.Page < 0:
		return fmt.Errorf("negative page at step %d", i)
	case s.Action > Replacement:
		return fmt.Errorf("unknown action %d at step %d", s.Action, i)
	case !inRange(s.Slot):
		return fmt.Errorf("slot %d out of range at step %d", s.Slot, i)
	case s.Frames[s.Slot] != s.Page:
		return fmt.Errorf("slot %d does not hold page %d at step %d", s.Slot, s.Page, i)
	case s.Action == Replacement && s.Evicted < 0:
		return fmt.Errorf("replacement without evicted page at step %d", i)
	case s.Action != Replacement && s.Evicted != NoPage:
		return fmt.Errorf("%s step %d evicts page %d", s.Action, i, s.Evicted)
	}
	for _, p := range s.Frames {
		if p < EmptySlot {
			return fmt.Errorf("invalid frame content %d at step %d", p, i)
		}
	}

	switch aux := s.Aux.(type) {
	case FIFOState:
		if !inRange(aux.Pointer) {
			return fmt.Errorf("pointer %d out of range at step %d", aux.Pointer, i)
		}
	case LRUState:
		for _, age := range aux.Ages {
			if age < 0 {
				return fmt.Errorf("negative age at step %d", i)
			}
		}
	case ClockState:
		if !inRange(aux.Hand) {
			return fmt.Errorf("hand %d out of range at step %d", aux.Hand, i)
		}
		if aux.Probes < 0 || aux.Probes > 2*frames {
			return fmt.Errorf("probe count %d out of range at step %d", aux.Probes, i)
		}
		for _, b := range aux.Bits {
			if b > 1 {
				return fmt.Errorf("reference bit %d at step %d", b, i)
			}
		}
	}
	return nil
}
