package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"terragen/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix is appended to compressed mesh files.
const ZstdSuffix = ".zst"

// WriteOBJ writes the mesh as Wavefront OBJ with 1-based quad faces. Normals
// are optional; when given there must be one per vertex. Coordinates are
// written with full float64 precision so they survive a round trip.
func WriteOBJ(w io.Writer, m meshing.MeshGrid, normals []mgl64.Vec3) error {
	if normals != nil && len(normals) != len(m.Vertices) {
		return fmt.Errorf("export: %d normals for %d vertices", len(normals), len(m.Vertices))
	}
	bw := bufio.NewWriterSize(w, 256*1024)
	fmt.Fprintf(bw, "# terragen heightfield\n# grid %d %d\n", m.Width, m.Height)
	for _, v := range m.Vertices {
		writeVec(bw, "v", v)
	}
	for _, n := range normals {
		writeVec(bw, "vn", n)
	}
	for _, q := range m.Faces {
		bw.WriteString("f")
		for _, i := range q {
			if normals != nil {
				fmt.Fprintf(bw, " %d//%d", i+1, i+1)
			} else {
				fmt.Fprintf(bw, " %d", i+1)
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeVec(w *bufio.Writer, tag string, v mgl64.Vec3) {
	w.WriteString(tag)
	for _, c := range v {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
	}
	w.WriteByte('\n')
}

// SaveOBJ writes the mesh to path, zstd-compressed when compress is set (the
// ".zst" suffix is added if missing). It returns the path actually written.
func SaveOBJ(path string, m meshing.MeshGrid, normals []mgl64.Vec3, compress bool) (string, error) {
	if compress && !strings.HasSuffix(path, ZstdSuffix) {
		path += ZstdSuffix
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if !compress {
		if err := WriteOBJ(f, m, normals); err != nil {
			return "", fmt.Errorf("write obj: %w", err)
		}
		return path, f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	if err := WriteOBJ(enc, m, normals); err != nil {
		enc.Close()
		return "", fmt.Errorf("write obj: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("zstd close: %w", err)
	}
	return path, f.Close()
}

// ReadOBJ parses vertices, normals and quad faces written by WriteOBJ.
// Width and Height come from the "# grid" header when present.
func ReadOBJ(r io.Reader) (meshing.MeshGrid, []mgl64.Vec3, error) {
	var (
		m       meshing.MeshGrid
		normals []mgl64.Vec3
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "#":
			if len(fields) == 4 && fields[1] == "grid" {
				w, errW := strconv.Atoi(fields[2])
				h, errH := strconv.Atoi(fields[3])
				if errW != nil || errH != nil {
					return m, nil, fmt.Errorf("obj line %d: bad grid header", line)
				}
				m.Width, m.Height = w, h
			}
		case "v", "vn":
			v, err := parseVec(fields[1:])
			if err != nil {
				return m, nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			if fields[0] == "v" {
				m.Vertices = append(m.Vertices, v)
			} else {
				normals = append(normals, v)
			}
		case "f":
			q, err := parseQuad(fields[1:], len(m.Vertices))
			if err != nil {
				return m, nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			m.Faces = append(m.Faces, q)
		}
	}
	if err := sc.Err(); err != nil {
		return m, nil, err
	}
	return m, normals, nil
}

// OpenOBJ reads a plain or zstd-compressed OBJ file.
func OpenOBJ(path string) (meshing.MeshGrid, []mgl64.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return meshing.MeshGrid{}, nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ZstdSuffix) {
		return ReadOBJ(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return meshing.MeshGrid{}, nil, err
	}
	defer dec.Close()
	return ReadOBJ(dec)
}

func parseVec(fields []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("want 3 coordinates, got %d", len(fields))
	}
	for i := range v {
		c, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		v[i] = c
	}
	return v, nil
}

func parseQuad(fields []string, nverts int) (meshing.Quad, error) {
	var q meshing.Quad
	if len(fields) != 4 {
		return q, fmt.Errorf("want quad, got %d indices", len(fields))
	}
	for i, f := range fields {
		idx, _, _ := strings.Cut(f, "/")
		n, err := strconv.Atoi(idx)
		if err != nil {
			return q, err
		}
		if n < 1 || n > nverts {
			return q, fmt.Errorf("vertex index %d out of range [1,%d]", n, nverts)
		}
		q[i] = n - 1
	}
	return q, nil
}
