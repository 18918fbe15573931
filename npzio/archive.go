// Package npzio persists frames as lz4-compressed archives of named binary
// sections, and reads them back. Both the current multi-level index layout
// and the legacy flat layout are readable.
package npzio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/pierrec/lz4"

	"github.com/go-sparsity/sparsity"
	"github.com/go-sparsity/sparsity/csr"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/index"
)

// magic identifies a frame archive
var magic = []byte("SPF1")

// section keys. Level keys carry a numeric suffix; the suffix-less index and
// columns keys belong to the legacy flat layout.
const (
	keyData        = "data"
	keyIndices     = "indices"
	keyIndptr      = "indptr"
	keyShape       = "shape"
	keyIndex       = "frame_index"
	keyIndexNames  = "frame_index_names"
	keyColumns     = "frame_columns"
	keyColumnNames = "frame_columns_names"
)

func levelKey(prefix string, level int) string {
	return fmt.Sprintf("%s_level_%d", prefix, level)
}

// WriteFrame writes a frame archive to a stream
func WriteFrame(w io.Writer, f sparsity.Frame) error {
	if _, err := w.Write(magic); err != nil {
		return err
	}
	zw := lz4.NewWriter(w)
	if err := writeSections(zw, f, false); err != nil {
		return err
	}
	return zw.Close()
}

// WriteFrameLegacy writes the legacy flat-index archive layout. Only frames
// with flat row and column indexes can be written this way.
func WriteFrameLegacy(w io.Writer, f sparsity.Frame) error {
	if f.Index().NumLevels() != 1 || f.Columns().NumLevels() != 1 {
		return errors.UnsupportedError{Feature: "legacy persistence of multi-level indexes"}
	}
	if _, err := w.Write(magic); err != nil {
		return err
	}
	zw := lz4.NewWriter(w)
	if err := writeSections(zw, f, true); err != nil {
		return err
	}
	return zw.Close()
}

func writeSections(w io.Writer, f sparsity.Frame, legacy bool) error {
	m := f.Data()
	shape := m.Shape()
	if err := writeSection(w, keyData, encodeFloats(m.Values())); err != nil {
		return err
	}
	if err := writeSection(w, keyIndices, encodeInts(m.ColIndices())); err != nil {
		return err
	}
	if err := writeSection(w, keyIndptr, encodeInts(m.RowPointers())); err != nil {
		return err
	}
	if err := writeSection(w, keyShape, encodeInts([]int{shape.Rows, shape.Cols})); err != nil {
		return err
	}
	if legacy {
		if err := writeSection(w, keyIndex, encodeLabels(f.Index().Labels(0))); err != nil {
			return err
		}
		return writeSection(w, keyColumns, encodeLabels(f.Columns().Labels(0)))
	}
	if err := writeIndex(w, keyIndex, keyIndexNames, f.Index()); err != nil {
		return err
	}
	return writeIndex(w, keyColumns, keyColumnNames, f.Columns())
}

func writeIndex(w io.Writer, prefix string, namesKey string, idx sparsity.Index) error {
	for level := 0; level < idx.NumLevels(); level++ {
		if err := writeSection(w, levelKey(prefix, level), encodeLabels(idx.Labels(level))); err != nil {
			return err
		}
	}
	return writeSection(w, namesKey, encodeStrings(idx.LevelNames()))
}

// ReadFrame reads a frame archive from a stream
func ReadFrame(r io.Reader) (sparsity.Frame, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if !bytes.Equal(header, magic) {
		return nil, errors.ParameterError{Msg: "stream is not a frame archive"}
	}
	sections, err := readSections(lz4.NewReader(r))
	if err != nil {
		return nil, err
	}
	shape, err := requireInts(sections, keyShape)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, errors.ParameterError{Msg: "archive shape section is malformed"}
	}
	values, err := requireFloats(sections, keyData)
	if err != nil {
		return nil, err
	}
	colInd, err := requireInts(sections, keyIndices)
	if err != nil {
		return nil, err
	}
	rowPtr, err := requireInts(sections, keyIndptr)
	if err != nil {
		return nil, err
	}
	m, err := csr.Create(shape[0], shape[1], values, colInd, rowPtr)
	if err != nil {
		return nil, err
	}
	idx, err := readIndex(sections, keyIndex, keyIndexNames)
	if err != nil {
		return nil, err
	}
	cols, err := readIndex(sections, keyColumns, keyColumnNames)
	if err != nil {
		return nil, err
	}
	return frame.Create(m, idx, cols)
}

// readIndex decodes an index, probing for level keys before falling back to
// the legacy flat key
func readIndex(sections map[string][]byte, prefix string, namesKey string) (sparsity.Index, error) {
	if _, ok := sections[levelKey(prefix, 0)]; !ok {
		data, ok := sections[prefix]
		if !ok {
			return nil, errors.ParameterError{Msg: fmt.Sprintf("archive is missing section %s", prefix)}
		}
		labels, err := decodeLabels(data)
		if err != nil {
			return nil, err
		}
		return index.Create(labels, "")
	}
	var levels [][]sparsity.Label
	for level := 0; ; level++ {
		data, ok := sections[levelKey(prefix, level)]
		if !ok {
			break
		}
		labels, err := decodeLabels(data)
		if err != nil {
			return nil, err
		}
		levels = append(levels, labels)
	}
	names, err := decodeStrings(sections[namesKey])
	if err != nil {
		return nil, err
	}
	if len(names) != len(levels) {
		names = make([]string, len(levels))
	}
	if len(levels) == 1 {
		return index.Create(levels[0], names[0])
	}
	return index.CreateMulti(levels, names)
}

// writeSection writes one length-prefixed named section
func writeSection(w io.Writer, name string, payload []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(name))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readSections reads named sections until the stream ends
func readSections(r io.Reader) (map[string][]byte, error) {
	sections := make(map[string][]byte)
	for {
		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			if err == io.EOF {
				return sections, nil
			}
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		var payloadLen uint64
		if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
			return nil, err
		}
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		sections[string(name)] = payload
	}
}

func encodeFloats(vs []float64) []byte {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

func decodeFloats(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, errors.ParameterError{Msg: "archive float section is malformed"}
	}
	vs := make([]float64, len(data)/8)
	for i := range vs {
		vs[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	return vs, nil
}

func encodeInts(vs []int) []byte {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(v))
	}
	return buf
}

func decodeInts(data []byte) ([]int, error) {
	if len(data)%8 != 0 {
		return nil, errors.ParameterError{Msg: "archive int section is malformed"}
	}
	vs := make([]int, len(data)/8)
	for i := range vs {
		vs[i] = int(int64(binary.LittleEndian.Uint64(data[8*i:])))
	}
	return vs, nil
}

func encodeStrings(vs []string) []byte {
	var buf bytes.Buffer
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(len(vs)))
	buf.Write(scratch[:])
	for _, v := range vs {
		binary.LittleEndian.PutUint32(scratch[:4], uint32(len(v)))
		buf.Write(scratch[:4])
		buf.WriteString(v)
	}
	return buf.Bytes()
}

func decodeStrings(data []byte) ([]string, error) {
	if len(data) < 8 {
		return nil, nil
	}
	count := binary.LittleEndian.Uint64(data)
	data = data[8:]
	vs := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(data) < 4 {
			return nil, errors.ParameterError{Msg: "archive string section is malformed"}
		}
		n := binary.LittleEndian.Uint32(data)
		data = data[4:]
		if uint32(len(data)) < n {
			return nil, errors.ParameterError{Msg: "archive string section is malformed"}
		}
		vs = append(vs, string(data[:n]))
		data = data[n:]
	}
	return vs, nil
}

// encodeLabels serializes a label array: one kind byte, a count, then one
// fixed- or length-prefixed payload per label
func encodeLabels(labels []sparsity.Label) []byte {
	var buf bytes.Buffer
	kind := sparsity.KindString
	if len(labels) > 0 {
		kind = labels[0].Kind()
	}
	buf.WriteByte(byte(kind))
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(len(labels)))
	buf.Write(scratch[:])
	for _, l := range labels {
		switch kind {
		case sparsity.KindInt:
			binary.LittleEndian.PutUint64(scratch[:], uint64(l.IntValue()))
			buf.Write(scratch[:])
		case sparsity.KindFloat:
			binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(l.FloatValue()))
			buf.Write(scratch[:])
		case sparsity.KindTime:
			binary.LittleEndian.PutUint64(scratch[:], uint64(l.TimeValue().UnixNano()))
			buf.Write(scratch[:])
		default:
			s := l.StringValue()
			binary.LittleEndian.PutUint32(scratch[:4], uint32(len(s)))
			buf.Write(scratch[:4])
			buf.WriteString(s)
		}
	}
	return buf.Bytes()
}

func decodeLabels(data []byte) ([]sparsity.Label, error) {
	if len(data) < 9 {
		return nil, errors.ParameterError{Msg: "archive label section is malformed"}
	}
	kind := sparsity.LabelKind(data[0])
	count := binary.LittleEndian.Uint64(data[1:])
	data = data[9:]
	labels := make([]sparsity.Label, 0, count)
	for i := uint64(0); i < count; i++ {
		switch kind {
		case sparsity.KindInt, sparsity.KindFloat, sparsity.KindTime:
			if len(data) < 8 {
				return nil, errors.ParameterError{Msg: "archive label section is malformed"}
			}
			bits := binary.LittleEndian.Uint64(data)
			data = data[8:]
			switch kind {
			case sparsity.KindInt:
				labels = append(labels, sparsity.Int(int64(bits)))
			case sparsity.KindFloat:
				labels = append(labels, sparsity.Float(math.Float64frombits(bits)))
			default:
				labels = append(labels, sparsity.Time(time.Unix(0, int64(bits)).UTC()))
			}
		case sparsity.KindString:
			if len(data) < 4 {
				return nil, errors.ParameterError{Msg: "archive label section is malformed"}
			}
			n := binary.LittleEndian.Uint32(data)
			data = data[4:]
			if uint32(len(data)) < n {
				return nil, errors.ParameterError{Msg: "archive label section is malformed"}
			}
			labels = append(labels, sparsity.String(string(data[:n])))
			data = data[n:]
		default:
			return nil, errors.ParameterError{Msg: "archive label section has an unknown kind"}
		}
	}
	return labels, nil
}

func requireFloats(sections map[string][]byte, key string) ([]float64, error) {
	data, ok := sections[key]
	if !ok {
		return nil, errors.ParameterError{Msg: fmt.Sprintf("archive is missing section %s", key)}
	}
	return decodeFloats(data)
}

func requireInts(sections map[string][]byte, key string) ([]int, error) {
	data, ok := sections[key]
	if !ok {
		return nil, errors.ParameterError{Msg: fmt.Sprintf("archive is missing section %s", key)}
	}
	return decodeInts(data)
}
