package arena

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSize(t *testing.T) {
	size, err := BufferSize(10, 16, 8)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize+8+10*(16+RecordOverhead), size)

	size, err = BufferSize(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize, size)

	_, err = BufferSize(-1, 16, 0)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = BufferSize(1, -4, 0)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestNew(t *testing.T) {
	a := New(4, WithValueSize(8))
	require.True(t, a.Success())
	require.NoError(t, a.Err())

	assert.Equal(t, 4, a.Total())
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, 0.0, a.Capacity())
	assert.Equal(t, 8, a.ValueSize())
	assert.Equal(t, 8+RecordOverhead, a.RecordSize())
	assert.Equal(t, HeaderSize, a.HeaderSize())
	assert.Equal(t, DefaultMagic, string(a.Bytes()[:MagicSize]))
	assert.Equal(t, Nil, a.Begin())
	assert.Empty(t, a.Head())
	require.NoError(t, a.Validate())
}

func TestNew_InvalidOptions(t *testing.T) {
	a := New(4, WithMagic(""))
	assert.False(t, a.Success())
	assert.ErrorIs(t, a.Err(), ErrInvalidOptions)
	assert.Equal(t, Nil, a.Allocate())
	assert.Nil(t, a.Value(1))
	assert.Nil(t, a.Head())
	assert.Equal(t, 0.0, a.Capacity())
}

func TestAllocateRelease(t *testing.T) {
	a := New(3, WithValueSize(4))

	h1 := a.Allocate()
	h2 := a.Allocate()
	h3 := a.Allocate()
	assert.Equal(t, []Handle{1, 2, 3}, []Handle{h1, h2, h3})
	assert.Equal(t, Nil, a.Allocate(), "arena is exhausted")
	assert.Equal(t, 3, a.Used())
	assert.Equal(t, 1.0, a.Capacity())
	require.NoError(t, a.Validate())

	a.Release(h2)
	assert.Equal(t, 2, a.Used())
	assert.False(t, a.Active(h2))
	require.NoError(t, a.Validate())

	// Double free and junk handles are ignored.
	a.Release(h2)
	a.Release(Nil)
	a.Release(99)
	assert.Equal(t, 2, a.Used())
	require.NoError(t, a.Validate())

	assert.Equal(t, h2, a.Allocate())
	assert.Equal(t, Nil, a.Allocate())
	require.NoError(t, a.Validate())
}

func TestFreeListReuseIsLIFOAndZeroed(t *testing.T) {
	a := New(8, WithValueSize(4))

	hs := make([]Handle, 5)
	for i := range hs {
		hs[i] = a.Allocate()
		binary.NativeEndian.PutUint32(a.Value(hs[i]), 0xDEADBEEF)
	}

	a.Release(hs[1])
	a.Release(hs[3])

	h := a.Allocate()
	assert.Equal(t, hs[3], h)
	assert.Equal(t, []byte{0, 0, 0, 0}, a.Value(h))

	h = a.Allocate()
	assert.Equal(t, hs[1], h)
	assert.Equal(t, []byte{0, 0, 0, 0}, a.Value(h))

	// Bump allocation resumes where it left off.
	assert.Equal(t, Handle(6), a.Allocate())
	require.NoError(t, a.Validate())
}

func TestActiveListIteration(t *testing.T) {
	a := New(5, WithValueSize(1))
	for range 5 {
		h := a.Allocate()
		a.Value(h)[0] = byte(h)
	}
	a.Release(3)

	var got []Handle
	for h, v := range a.All() {
		assert.Equal(t, byte(h), v[0])
		got = append(got, h)
	}
	assert.Equal(t, []Handle{5, 4, 2, 1}, got)

	got = got[:0]
	for h := a.Begin(); h != Nil; h = a.Next(h) {
		got = append(got, h)
	}
	assert.Equal(t, []Handle{5, 4, 2, 1}, got)

	// Releasing while iterating.
	for h := range a.All() {
		a.Release(h)
	}
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, Nil, a.Begin())
	require.NoError(t, a.Validate())
}

func TestValueAndHandleOf(t *testing.T) {
	a := New(4, WithValueSize(6), WithHeadSize(3))

	a.Allocate()
	h := a.Allocate()
	v := a.Value(h)
	require.Len(t, v, 6)
	assert.Equal(t, 6, cap(v))
	assert.Equal(t, h, a.HandleOf(v))

	assert.Equal(t, Nil, a.HandleOf(v[1:]))
	assert.Equal(t, Nil, a.HandleOf(a.Head()))
	assert.Equal(t, Nil, a.HandleOf(make([]byte, 6)))
	assert.Equal(t, Nil, a.HandleOf(nil))

	assert.Nil(t, a.Value(Nil))
	assert.Nil(t, a.Value(5))
	assert.NotNil(t, a.Value(4), "in range handles resolve even when free")
}

func TestRoundTrip(t *testing.T) {
	const n = 16
	a := New(n, WithValueSize(8), WithHeadSize(4), WithMagic("TESTARNA"), WithVersion(7))
	copy(a.Head(), "head")

	k := 9
	for i := range k {
		h := a.Allocate()
		binary.NativeEndian.PutUint64(a.Value(h), uint64(i*i))
	}

	buf := bytes.Clone(a.Bytes())
	b := Load(buf, WithValueSize(8), WithHeadSize(4), WithMagic("TESTARNA"), WithVersion(7))
	require.True(t, b.Success(), b.Err())

	assert.Equal(t, k, b.Used())
	assert.Equal(t, float64(k)/n, b.Capacity())
	assert.Equal(t, "head", string(b.Head()))
	for h := Handle(1); h <= Handle(k); h++ {
		assert.Equal(t, a.Value(h), b.Value(h))
	}
	require.NoError(t, b.Validate())
}

func TestLoad_BootstrapsZeroBuffer(t *testing.T) {
	size, err := BufferSize(10, 4, 0)
	require.NoError(t, err)

	buf := make([]byte, size)
	a := Load(buf, WithValueSize(4))
	require.True(t, a.Success())
	assert.Equal(t, 10, a.Total())
	assert.Equal(t, DefaultMagic, string(buf[:MagicSize]))

	// Oversized buffers keep the slack after the last record.
	a = Load(make([]byte, size+3), WithValueSize(4))
	require.True(t, a.Success())
	assert.Equal(t, 10, a.Total())
}

func TestLoad_Mismatches(t *testing.T) {
	base := New(4, WithValueSize(8), WithHeadSize(2))
	require.True(t, base.Success())

	tamper := func(fn func(b []byte)) []byte {
		b := bytes.Clone(base.Bytes())
		fn(b)
		return b
	}

	tests := []struct {
		name string
		buf  []byte
		opts []Option
		want error
	}{
		{
			name: "magic",
			buf:  tamper(func(b []byte) { b[0] = 'X' }),
			want: ErrBadMagic,
		},
		{
			name: "expected magic",
			buf:  base.Bytes(),
			opts: []Option{WithMagic("OTHER")},
			want: ErrBadMagic,
		},
		{
			name: "version",
			buf:  base.Bytes(),
			opts: []Option{WithVersion(DefaultVersion + 1)},
			want: ErrBadVersion,
		},
		{
			name: "memsize",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint64(b[offMemSize:], 1) }),
			want: ErrSizeMismatch,
		},
		{
			name: "truncated",
			buf:  base.Bytes()[:len(base.Bytes())-1],
			want: ErrSizeMismatch,
		},
		{
			name: "head size",
			buf:  base.Bytes(),
			opts: []Option{WithHeadSize(3)},
			want: ErrHeadSizeMismatch,
		},
		{
			name: "stored head size",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint32(b[offHeadSize:], 99) }),
			want: ErrHeadSizeMismatch,
		},
		{
			// 4 records of 7+9 bytes fit where 4 records of 8+9 bytes were.
			name: "value size",
			buf:  base.Bytes(),
			opts: []Option{WithValueSize(7)},
			want: ErrRecordSizeMismatch,
		},
		{
			name: "stored record size",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint32(b[offRecord:], 16) }),
			want: ErrRecordSizeMismatch,
		},
		{
			name: "total",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint32(b[offTotal:], 5) }),
			want: ErrTotalMismatch,
		},
		{
			name: "used",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint32(b[offUsed:], 5) }),
			want: ErrCorruptHeader,
		},
		{
			name: "free head",
			buf:  tamper(func(b []byte) { binary.NativeEndian.PutUint32(b[offFree:], math.MaxUint32) }),
			want: ErrCorruptHeader,
		},
		{
			name: "too small",
			buf:  make([]byte, HeaderSize-1),
			want: ErrBufferTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts == nil {
				opts = []Option{WithValueSize(8), WithHeadSize(2)}
			} else {
				opts = append([]Option{WithValueSize(8), WithHeadSize(2)}, opts...)
			}

			a := Load(tt.buf, opts...)
			assert.False(t, a.Success())
			assert.ErrorIs(t, a.Err(), tt.want)
			assert.Equal(t, Nil, a.Allocate())
			assert.Nil(t, a.Bytes())
			assert.Equal(t, 0, a.Used())
		})
	}
}

type heapStorage struct{ buf []byte }

func (s heapStorage) Bytes() []byte { return s.buf }
func (s heapStorage) Size() int     { return len(s.buf) }

func TestLoadStorage(t *testing.T) {
	size, err := BufferSize(2, 4, 0)
	require.NoError(t, err)

	s := heapStorage{buf: make([]byte, size)}
	a := LoadStorage(s, WithValueSize(4))
	require.True(t, a.Success())
	h := a.Allocate()
	copy(a.Value(h), "abcd")

	b := LoadStorage(s, WithValueSize(4))
	require.True(t, b.Success())
	assert.Equal(t, 1, b.Used())
	assert.Equal(t, "abcd", string(b.Value(h)))
}

func TestZeroValueSize(t *testing.T) {
	a := New(3)
	require.True(t, a.Success())
	h := a.Allocate()
	assert.Equal(t, Handle(1), h)
	assert.Empty(t, a.Value(h))
	assert.Equal(t, Nil, a.HandleOf(a.Value(h)))
}
