package inputs

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/orbitsim/internal/geo"
)

// fileRecord is the on-disk shape of one chunk file: 1000 steps, arrays
// indexed [step][satellite]. This stands in for the reference system's
// HDF5 arrays; no HDF5 binding exists in this module's dependency set, so
// each chunk is encoding/gob, decoded once per chunk and cached.
type fileRecord struct {
	SatellitePositions [][]geo.Vec3
	ISLNeighbours      [][][]int
	Visibility         [][][]int
	DataGeneration     [][]float64
}

// FileSource reads chunked, gob-encoded per-step arrays from a directory,
// mirroring the reference system's "1000 steps per file" input layout.
type FileSource struct {
	dir string
	nSat int

	mu          sync.Mutex
	cachedIndex int
	cached      *fileRecord

	gsPositions []geo.Vec3
	attenuation [][]float64
}

// NewFileSource opens dir and eagerly loads the two run-constant arrays
// (ground-station positions, atmospheric attenuation); per-step chunk files
// are loaded lazily as steps reach them.
func NewFileSource(dir string, nSat int) (*FileSource, error) {
	fs := &FileSource{dir: dir, nSat: nSat, cachedIndex: -1}

	var gsPositions []geo.Vec3
	if err := decodeFile(filepath.Join(dir, "groundstation_positions.gob"), &gsPositions); err != nil {
		return nil, err
	}
	fs.gsPositions = gsPositions

	var attenuation [][]float64
	if err := decodeFile(filepath.Join(dir, "atmospheric_attenuation.gob"), &attenuation); err != nil {
		return nil, err
	}
	fs.attenuation = attenuation

	return fs, nil
}

func decodeFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("inputs: open %s: %w", path, err)
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

func (fs *FileSource) chunk(step int) (*fileRecord, int, error) {
	index := step / geo.StepsPerFile
	offset := step % geo.StepsPerFile

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.cached != nil && fs.cachedIndex == index {
		return fs.cached, offset, nil
	}

	path := filepath.Join(fs.dir, fmt.Sprintf("chunk_%d.gob", index))
	var rec fileRecord
	if err := decodeFile(path, &rec); err != nil {
		return nil, 0, err
	}
	fs.cached = &rec
	fs.cachedIndex = index
	return fs.cached, offset, nil
}

func (fs *FileSource) SatellitePositions(step int) ([]geo.Vec3, error) {
	rec, offset, err := fs.chunk(step)
	if err != nil {
		return nil, err
	}
	if offset >= len(rec.SatellitePositions) {
		return nil, &ShapeError{Field: "satellite_positions", Expected: geo.StepsPerFile, Got: len(rec.SatellitePositions)}
	}
	row := rec.SatellitePositions[offset]
	if len(row) != fs.nSat {
		return nil, &ShapeError{Field: "satellite_positions row", Expected: fs.nSat, Got: len(row)}
	}
	return row, nil
}

func (fs *FileSource) GroundstationPositions() ([]geo.Vec3, error) {
	return fs.gsPositions, nil
}

func (fs *FileSource) ISLNeighbours(step int) ([][]int, error) {
	rec, offset, err := fs.chunk(step)
	if err != nil {
		return nil, err
	}
	if offset >= len(rec.ISLNeighbours) {
		return nil, &ShapeError{Field: "grid", Expected: geo.StepsPerFile, Got: len(rec.ISLNeighbours)}
	}
	row := rec.ISLNeighbours[offset]
	if len(row) != fs.nSat {
		return nil, &ShapeError{Field: "grid row", Expected: fs.nSat, Got: len(row)}
	}
	return row, nil
}

func (fs *FileSource) VisibleGroundstations(step int) ([][]int, error) {
	rec, offset, err := fs.chunk(step)
	if err != nil {
		return nil, err
	}
	if offset >= len(rec.Visibility) {
		return nil, &ShapeError{Field: "satellite_visibility_groundstations", Expected: geo.StepsPerFile, Got: len(rec.Visibility)}
	}
	row := rec.Visibility[offset]
	if len(row) != fs.nSat {
		return nil, &ShapeError{Field: "satellite_visibility_groundstations row", Expected: fs.nSat, Got: len(row)}
	}
	return row, nil
}

func (fs *FileSource) DataGeneration(step int) ([]float64, error) {
	rec, offset, err := fs.chunk(step)
	if err != nil {
		return nil, err
	}
	if offset >= len(rec.DataGeneration) {
		return nil, &ShapeError{Field: "satellite_data_generation", Expected: geo.StepsPerFile, Got: len(rec.DataGeneration)}
	}
	row := rec.DataGeneration[offset]
	if len(row) != fs.nSat {
		return nil, &ShapeError{Field: "satellite_data_generation row", Expected: fs.nSat, Got: len(row)}
	}
	return row, nil
}

func (fs *FileSource) AtmosphericAttenuation() ([][]float64, error) {
	return fs.attenuation, nil
}
