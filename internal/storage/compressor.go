package storage

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// maxSnapshotSize bounds decoded backups; store files are a few KB each.
const maxSnapshotSize = 64 << 20

var errEmptyFrame = errors.New("empty zstd frame")

// CompressorInterface packs and unpacks backup snapshots.
type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstdCompressor() (CompressorInterface, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderCRC(true),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxSnapshotSize),
	)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (c *zstdCodec) Compress(val []byte) ([]byte, error) {
	return c.enc.EncodeAll(val, nil), nil
}

func (c *zstdCodec) Decompress(val []byte) ([]byte, error) {
	if len(val) == 0 {
		return nil, errEmptyFrame
	}
	out, err := c.dec.DecodeAll(val, nil)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return out, nil
}

func (c *zstdCodec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
