package arena

// DefaultMagic is stamped into arenas created without WithMagic.
const DefaultMagic = "NIXARENA"

// DefaultVersion is stamped into arenas created without WithVersion.
const DefaultVersion uint16 = 0x0100

// Option configures an Arena.
type Option func(*options)

type options struct {
	valueSize int
	headSize  int
	magic     [MagicSize]byte
	version   uint16
}

func defaultOptions() options {
	o := options{version: DefaultVersion}
	copy(o.magic[:], DefaultMagic)
	return o
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) validate() bool {
	if o.valueSize < 0 || o.headSize < 0 || o.valueSize > maxValueSize || o.headSize > maxHeadSize {
		return false
	}
	return o.magic != [MagicSize]byte{}
}

// WithValueSize sets the payload size of every block in bytes.
func WithValueSize(n int) Option {
	return func(o *options) {
		o.valueSize = n
	}
}

// WithHeadSize reserves n bytes after the fixed header for a caller-defined
// head payload, available through Arena.Head.
func WithHeadSize(n int) Option {
	return func(o *options) {
		o.headSize = n
	}
}

// WithMagic sets the 8-byte magic identifying the structure stored in the
// arena. Shorter strings are zero-padded, longer ones truncated. An all-zero
// magic is rejected because it marks an unformatted buffer.
func WithMagic(magic string) Option {
	return func(o *options) {
		o.magic = [MagicSize]byte{}
		copy(o.magic[:], magic)
	}
}

// WithVersion sets the format version stored in and expected from the header.
func WithVersion(v uint16) Option {
	return func(o *options) {
		o.version = v
	}
}
