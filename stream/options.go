package stream

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/osmpbf/format"
	"github.com/arloliu/osmpbf/internal/options"
	"github.com/arloliu/osmpbf/schema"
)

type config struct {
	logger        *slog.Logger
	decoder       *schema.Decoder
	legacyOffsets bool
	metadata      bool
	maxBlobSize   int
	featureCheck  bool
}

func defaultConfig() *config {
	return &config{
		logger:       slog.New(slog.DiscardHandler),
		maxBlobSize:  format.MaxBlobSize,
		featureCheck: true,
	}
}

// Option configures a Stream.
type Option = options.Option[*config]

// WithLogger sets the logger. The default logger discards everything.
//
// Block progress is logged at debug level, skipped block types at warn level
// and the failure that aborts a stream at error level.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(c *config) error {
		if logger == nil {
			return errors.New("stream: nil logger")
		}
		c.logger = logger

		return nil
	})
}

// WithDecoder shares a schema decoder between streams instead of building one
// per Open call.
func WithDecoder(dec *schema.Decoder) Option {
	return options.New(func(c *config) error {
		if dec == nil {
			return errors.New("stream: nil decoder")
		}
		c.decoder = dec

		return nil
	})
}

// WithLegacyOffsets adds lat_offset and lon_offset as raw integers to scaled
// coordinates. Disabled by default.
func WithLegacyOffsets(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.legacyOffsets = enabled
	})
}

// WithMetadata decodes entity metadata into model.Info. Disabled by default.
func WithMetadata(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.metadata = enabled
	})
}

// WithMaxBlobSize limits both the framed blob size and the decompressed block
// size. The default is 32 MiB.
func WithMaxBlobSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("stream: max blob size must be positive, got %d", n)
		}
		c.maxBlobSize = n

		return nil
	})
}

// WithFeatureCheck controls rejection of header blocks that require features
// this reader does not implement. Enabled by default.
func WithFeatureCheck(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.featureCheck = enabled
	})
}
