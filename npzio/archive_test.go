package npzio

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-sparsity/sparsity"
	errors "github.com/go-sparsity/sparsity/errors"
	"github.com/go-sparsity/sparsity/frame"
	"github.com/go-sparsity/sparsity/index"
)

func archiveFixture(t *testing.T) sparsity.Frame {
	idx, err := index.Create(sparsity.Strings([]string{"r1", "r2", "r3"}), "row")
	require.Nil(t, err)
	cols, err := index.Create(sparsity.Strings([]string{"x", "y"}), "")
	require.Nil(t, err)
	f, err := frame.FromRows([][]float64{{1, 0}, {0, 2.5}, {3, 0}}, idx, cols)
	require.Nil(t, err)
	return f
}

func requireSameFrame(t *testing.T, got sparsity.Frame, want sparsity.Frame) {
	require.Equal(t, got.Shape(), want.Shape())
	require.True(t, got.Index().Equal(want.Index()))
	require.True(t, got.Columns().Equal(want.Columns()))
	shape := want.Shape()
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			require.Equal(t, got.Data().At(i, j), want.Data().At(i, j))
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	f := archiveFixture(t)
	var buf bytes.Buffer
	require.Nil(t, WriteFrame(&buf, f))
	back, err := ReadFrame(&buf)
	require.Nil(t, err)
	requireSameFrame(t, back, f)
	require.Equal(t, back.Index().LevelNames(), []string{"row"})
}

func TestRoundTripMultiLevelIndex(t *testing.T) {
	idx, err := index.CreateMulti([][]sparsity.Label{
		sparsity.Strings([]string{"a", "a", "b"}),
		sparsity.Ints([]int64{1, 2, 1}),
	}, []string{"outer", "inner"})
	require.Nil(t, err)
	f, err := frame.FromRows([][]float64{{1}, {2}, {3}}, idx, nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, WriteFrame(&buf, f))
	back, err := ReadFrame(&buf)
	require.Nil(t, err)
	requireSameFrame(t, back, f)
	require.Equal(t, back.Index().NumLevels(), 2)
	require.Equal(t, back.Index().LevelNames(), []string{"outer", "inner"})
	require.Equal(t, back.Index().LevelKind(1), sparsity.KindInt)
}

func TestRoundTripTimeLabels(t *testing.T) {
	days := []time.Time{
		time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	idx, err := index.Create(sparsity.Times(days), "date")
	require.Nil(t, err)
	f, err := frame.FromRows([][]float64{{1}, {2}}, idx, nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, WriteFrame(&buf, f))
	back, err := ReadFrame(&buf)
	require.Nil(t, err)
	require.Equal(t, back.Index().Kind(), sparsity.KindTime)
	require.True(t, back.Index().Labels(0)[1].TimeValue().Equal(days[1]))
}

func TestReadLegacyFlatLayout(t *testing.T) {
	f := archiveFixture(t)
	var buf bytes.Buffer
	require.Nil(t, WriteFrameLegacy(&buf, f))
	back, err := ReadFrame(&buf)
	require.Nil(t, err)
	require.Equal(t, back.Shape(), f.Shape())
	require.True(t, back.Index().Equal(f.Index()))
	require.Equal(t, back.Data().At(1, 1), 2.5)
	// the legacy layout does not carry level names
	require.Equal(t, back.Index().LevelNames(), []string{""})
}

func TestWriteLegacyRejectsMultiLevel(t *testing.T) {
	idx, err := index.CreateMulti([][]sparsity.Label{
		sparsity.Strings([]string{"a"}),
		sparsity.Strings([]string{"b"}),
	}, []string{"l0", "l1"})
	require.Nil(t, err)
	f, err := frame.FromRows([][]float64{{1}}, idx, nil)
	require.Nil(t, err)
	err = WriteFrameLegacy(ioutil.Discard, f)
	require.IsType(t, errors.UnsupportedError{}, err)
}

func TestReadRejectsForeignStreams(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte("not an archive")))
	require.NotNil(t, err)
}

func TestWriteReadByPath(t *testing.T) {
	f := archiveFixture(t)
	path := filepath.Join(t.TempDir(), "frame.spz")
	require.Nil(t, Write(path, f))
	back, err := Read(path)
	require.Nil(t, err)
	requireSameFrame(t, back, f)
}

// memStore keeps archives in memory, standing in for an object store
type memStore struct {
	blobs map[string][]byte
}

type memWriter struct {
	store *memStore
	path  string
	buf   bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriter) Close() error {
	w.store.blobs[w.path] = w.buf.Bytes()
	return nil
}

func (s *memStore) Open(path string) (io.ReadCloser, error) {
	return ioutil.NopCloser(bytes.NewReader(s.blobs[path])), nil
}

func (s *memStore) Create(path string) (io.WriteCloser, error) {
	return &memWriter{store: s, path: path}, nil
}

func TestRegisteredStoreScheme(t *testing.T) {
	store := &memStore{blobs: map[string][]byte{}}
	RegisterStore("mem", store)
	f := archiveFixture(t)
	require.Nil(t, Write("mem://bucket/frame.spz", f))
	back, err := Read("mem://bucket/frame.spz")
	require.Nil(t, err)
	requireSameFrame(t, back, f)
}

func TestUnknownSchemeFails(t *testing.T) {
	err := Write("nosuch://frame.spz", archiveFixture(t))
	require.IsType(t, errors.ParameterError{}, err)
	_, err = Read("nosuch://frame.spz")
	require.IsType(t, errors.ParameterError{}, err)
}
