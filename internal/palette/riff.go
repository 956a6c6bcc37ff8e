package palette

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/image/riff"
)

/*
RIFF PAL layout, one "data" chunk per palette:

	WORD         palVersion;     // 0x0300
	WORD         palNumEntries;
	PALETTEENTRY palPalEntry[];  // peRed, peGreen, peBlue, peFlags
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// Load reads the first palette from the RIFF PAL file at path and checks its size.
func Load(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", path, err)
	}
	defer f.Close()

	pals, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", path, err)
	}
	if len(pals) == 0 {
		return nil, fmt.Errorf("palette file %q holds no palettes", path)
	}
	if err := pals[0].Check(); err != nil {
		return nil, err
	}
	return pals[0], nil
}

// Store writes p to path as a RIFF PAL file.
func Store(path string, p Palette) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create palette %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close palette %q: %w", path, closeErr)
		}
	}()

	if _, err = WriteRIFF(f, p); err != nil {
		return fmt.Errorf("could not save palette %q: %w", path, err)
	}
	return nil
}

// ReadRIFF reads every palette in a RIFF PAL stream.
func ReadRIFF(r io.Reader) ([]Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]Palette, error) {
	var res []Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		if id == riff.LIST {
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			listRes, lerr := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, listRes...)
			if lerr != nil {
				return res, lerr
			}
			continue
		} else if id != dataType {
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), string(id[:]))
		}

		pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
		if err != nil {
			return res, err
		}
		res = append(res, pal)
	}

	return res, nil
}

func readPalette(r io.Reader, ident string) (Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(head[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#x", ident, ver)
	}

	count := int(binary.LittleEndian.Uint16(head[2:]))
	entries := make([]byte, 4*count)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d colors from chunk %s: %w", count, ident, err)
	}

	p := make(Palette, count)
	for i := range p {
		p[i] = RGB{entries[4*i], entries[4*i+1], entries[4*i+2]}
	}
	return p, nil
}

// WriteRIFF writes p as a single-palette RIFF PAL stream and returns the
// number of bytes written.
func WriteRIFF(w io.Writer, p Palette) (int64, error) {
	chunk := 4 + 4*len(p)
	buf := make([]byte, 0, 12+8+chunk)

	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunk))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunk))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(p)))
	for _, c := range p {
		buf = append(buf, c.R, c.G, c.B, 0)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), err
	} else if n != len(buf) {
		return int64(n), fmt.Errorf("wrote only %d/%d bytes", n, len(buf))
	}
	return int64(n), nil
}
