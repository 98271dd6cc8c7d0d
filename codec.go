package monocle

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/elizagamedev/monocle/frame"
	"github.com/elizagamedev/monocle/mci"
)

// load reads a frame from either a .mci file or any decodable raster.
func load(file string, opts ...Option) (*frame.Frame, error) {
	if strings.EqualFold(filepath.Ext(file), mci.Extension) {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return mci.Unmarshal(b)
	}

	m, err := readImage(file)
	if err != nil {
		return nil, err
	}
	return EncodeImage(m, opts...)
}

func (m *Monocle) logStats(file string, f *frame.Frame) {
	s := f.Stats()
	m.logger.Printf("%s: %d luma rows, %d chroma rows\n", file, s.LumaRows, s.ChromaRows)
	m.logger.Printf("%s: approximately %d bytes (luma = %d, chroma = %d)\n", file, s.Bytes(), s.LumaBytes, s.ChromaBytes)
}

// Encode converts the raster in to a .mci file written to out.
func (m *Monocle) Encode(in, out string, opts ...Option) error {
	f, err := load(in, opts...)
	if err != nil {
		return err
	}
	m.logStats(in, f)

	b, err := mci.Marshal(f)
	if err != nil {
		return err
	}

	return os.WriteFile(out, b, 0o644)
}

// Decode renders the frame held in in, a .mci file or a raster, as a PNG
// written to out.
func (m *Monocle) Decode(in, out string) error {
	f, err := load(in)
	if err != nil {
		return err
	}
	return writeFrame(out, f)
}

// Stats returns the size of the frame held in in.
func (m *Monocle) Stats(in string, opts ...Option) (frame.Stats, error) {
	f, err := load(in, opts...)
	if err != nil {
		return frame.Stats{}, err
	}
	m.logStats(in, f)
	return f.Stats(), nil
}

func writeFrame(file string, f *frame.Frame) error {
	img, err := frame.ToImage(f)
	if err != nil {
		return err
	}

	w, err := os.Create(file)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := png.Encode(w, img); err != nil {
		return err
	}
	return w.Close()
}
