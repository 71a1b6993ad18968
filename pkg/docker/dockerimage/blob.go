package dockerimage

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const tarBlockSize = 512

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	tarMagic  = []byte("ustar")
)

// openBlob prepares an OCI blob for layer decoding.
// Compressed blobs are decompressed. The returned flag is false when the
// (decompressed) blob is not a tar archive (config and manifest blobs).
func openBlob(r io.Reader) (io.Reader, func(), bool, error) {
	br := bufio.NewReaderSize(r, 2*tarBlockSize)
	magic, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, false, err
		}

		ur := bufio.NewReaderSize(zr, 2*tarBlockSize)
		return ur, func() { zr.Close() }, isTarStream(ur), nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, false, err
		}

		ur := bufio.NewReaderSize(zr, 2*tarBlockSize)
		return ur, zr.Close, isTarStream(ur), nil
	default:
		return br, func() {}, isTarStream(br), nil
	}
}

// isTarStream checks the ustar magic of the first header block
func isTarStream(br *bufio.Reader) bool {
	hdr, err := br.Peek(tarBlockSize)
	if err != nil {
		return false
	}

	return bytes.Equal(hdr[257:257+len(tarMagic)], tarMagic)
}
