package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/encoding"
	"github.com/arloliu/qpack/huffman"
	"github.com/arloliu/qpack/internal/options"
	"github.com/arloliu/qpack/observe"
)

// WriterConfig holds the settings shared by the instruction writers.
type WriterConfig struct {
	observer observe.Observer
	coder    huffman.Coder
	policy   huffman.Policy
}

// NewWriterConfig creates a WriterConfig with default settings and applies opts.
//
// Defaults:
//   - observer: observe.Nop()
//   - coder: huffman.Static
//   - policy: huffman.PolicyRequested
func NewWriterConfig(opts ...WriterOption) (*WriterConfig, error) {
	cfg := &WriterConfig{
		observer: observe.Nop(),
		coder:    huffman.Static{},
		policy:   huffman.PolicyRequested,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Observer returns the configured observer.
func (c *WriterConfig) Observer() observe.Observer {
	return c.observer
}

// Coder returns the configured Huffman coder.
func (c *WriterConfig) Coder() huffman.Coder {
	return c.coder
}

// Policy returns the configured Huffman policy.
func (c *WriterConfig) Policy() huffman.Policy {
	return c.policy
}

func (c *WriterConfig) setPolicy(p huffman.Policy) error {
	switch p {
	case huffman.PolicyRequested, huffman.PolicyAlways, huffman.PolicyNever:
		c.policy = p
		return nil
	default:
		return fmt.Errorf("invalid huffman policy: %v", p)
	}
}

// WriterOption represents a functional option for configuring the instruction writers.
type WriterOption = options.Option[*WriterConfig]

// WithObserver sets the observer notified of instruction events.
// A nil observer restores the default no-op observer.
func WithObserver(o observe.Observer) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		if o == nil {
			o = observe.Nop()
		}
		c.observer = o
	})
}

// WithHuffmanPolicy sets when Huffman coding is considered for literals.
func WithHuffmanPolicy(p huffman.Policy) WriterOption {
	return options.New(func(c *WriterConfig) error {
		return c.setPolicy(p)
	})
}

// WithHuffmanCoder replaces the Huffman coding table.
func WithHuffmanCoder(coder huffman.Coder) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if coder == nil {
			return fmt.Errorf("huffman coder must not be nil")
		}
		c.coder = coder

		return nil
	})
}

// Parser decodes instructions and field lines without tracking table state.
//
// It is the decoder-side counterpart of the writers: it reports which
// representation was sent and with which literal and index values, and leaves
// resolving dynamic table references to the caller.
type Parser struct {
	coder           huffman.Coder
	maxStringLength int
}

// ParserOption represents a functional option for configuring a Parser.
type ParserOption = options.Option[*Parser]

// NewParser creates a Parser with default settings and applies opts.
//
// Defaults:
//   - coder: huffman.Static
//   - maxStringLength: encoding.DefaultMaxStringLength
func NewParser(opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		coder:           huffman.Static{},
		maxStringLength: encoding.DefaultMaxStringLength,
	}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// WithMaxStringLength limits the encoded length of string literals the parser accepts.
func WithMaxStringLength(n int) ParserOption {
	return options.New(func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("max string length must be positive, got %d", n)
		}
		p.maxStringLength = n

		return nil
	})
}

// WithParserCoder replaces the Huffman coding table used by the parser.
func WithParserCoder(coder huffman.Coder) ParserOption {
	return options.New(func(p *Parser) error {
		if coder == nil {
			return fmt.Errorf("huffman coder must not be nil")
		}
		p.coder = coder

		return nil
	})
}
