// Package storage persists headless runs as one directory per run:
//
//	<base>/<engine>_<unixnano>/
//	    metadata.json     run parameters and metrics
//	    states.csv.zst    zstd-compressed CSV, one row per tick
//	    events.jsonl.sz   snappy-compressed JSON lines, one per engine event
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv.zst"
	eventsFile   = "events.jsonl.sz"
)

// ErrRunNotFound is returned when a run id has no directory in the store.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Engine     string             `json:"engine"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator,omitempty"`
	Preset     string             `json:"preset,omitempty"`
	Params     map[string]float64 `json:"params"`
	Labels     []string           `json:"labels"`
	Steps      int                `json:"steps"`
	Events     map[string]int     `json:"events,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// RunInfo is the caller-supplied part of the metadata.
type RunInfo struct {
	Engine     string
	Dt         float64
	Duration   float64
	Integrator string
	Preset     string
	Params     map[string]float64
}

// Recording is a run read back from disk.
type Recording struct {
	Meta      RunMetadata
	Times     []float64
	States    []dynamo.State
	Positions []mgl64.Vec2
	Energies  []dynamo.Derived
	Events    []sim.EventRecord
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", info.Engine, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Engine:     info.Engine,
		Timestamp:  now,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Integrator: info.Integrator,
		Preset:     info.Preset,
		Params:     info.Params,
		Labels:     result.Labels,
		Steps:      result.StepsTaken,
		Metrics:    finiteMetrics(result.Metrics),
	}
	if len(result.Events) > 0 {
		meta.Events = make(map[string]int)
		for _, ev := range result.Events {
			meta.Events[ev.Event.String()]++
		}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}
	if err := writeEvents(filepath.Join(runDir, eventsFile), result.Events); err != nil {
		return "", fmt.Errorf("write events: %w", err)
	}

	return runID, nil
}

// finiteMetrics drops NaN and Inf values, which encoding/json rejects.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeStates(path string, result *sim.Result) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(file)
	if err != nil {
		return err
	}

	w := csv.NewWriter(enc)
	header := []string{"time"}
	header = append(header, result.Labels...)
	header = append(header, "px", "py", "pe", "ke", "te")
	if err := w.Write(header); err != nil {
		enc.Close()
		return err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(result.Times[i]))
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		var pos mgl64.Vec2
		if i < len(result.Positions) {
			pos = result.Positions[i]
		}
		var d dynamo.Derived
		if i < len(result.Energies) {
			d = result.Energies[i]
		}
		row = append(row,
			formatFloat(pos.X()), formatFloat(pos.Y()),
			formatFloat(d.PotentialEnergy), formatFloat(d.KineticEnergy), formatFloat(d.TotalEnergy),
		)
		if err := w.Write(row); err != nil {
			enc.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

type eventLine struct {
	Time  float64 `json:"time"`
	Event string  `json:"event"`
}

func writeEvents(path string, events []sim.EventRecord) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	stream := snappy.NewBufferedWriter(file)
	enc := json.NewEncoder(stream)
	for _, ev := range events {
		if err := enc.Encode(eventLine{Time: ev.Time, Event: ev.Event.String()}); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates returns the engine state vectors and their times.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	rec, err := s.LoadRun(runID)
	if err != nil {
		return nil, nil, err
	}
	states := make([][]float64, len(rec.States))
	for i, st := range rec.States {
		states[i] = st
	}
	return states, rec.Times, nil
}

// LoadRun reads metadata, states and events of a run.
func (s *Store) LoadRun(runID string) (*Recording, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	rec := &Recording{Meta: *meta}

	if err := readStates(filepath.Join(s.baseDir, runID, statesFile), len(meta.Labels), rec); err != nil {
		return nil, fmt.Errorf("read states: %w", err)
	}
	events, err := readEvents(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	rec.Events = events
	return rec, nil
}

func readStates(path string, dim int, rec *Recording) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	dec, err := zstd.NewReader(file)
	if err != nil {
		return err
	}
	defer dec.Close()

	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return nil
	}

	for _, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf("parse %q: %w", field, err)
			}
			vals[j] = v
		}
		if len(vals) < 1+dim+5 {
			continue
		}

		rec.Times = append(rec.Times, vals[0])
		rec.States = append(rec.States, dynamo.State(vals[1:1+dim]))
		extra := vals[1+dim:]
		rec.Positions = append(rec.Positions, mgl64.Vec2{extra[0], extra[1]})
		rec.Energies = append(rec.Energies, dynamo.Derived{
			PotentialEnergy: extra[2],
			KineticEnergy:   extra[3],
			TotalEnergy:     extra[4],
		})
	}
	return nil
}

func readEvents(path string) ([]sim.EventRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	dec := json.NewDecoder(snappy.NewReader(file))
	var events []sim.EventRecord
	for {
		var line eventLine
		if err := dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		events = append(events, sim.EventRecord{Time: line.Time, Event: parseEvent(line.Event)})
	}
	return events, nil
}

func parseEvent(name string) dynamo.Event {
	for _, ev := range []dynamo.Event{dynamo.EventImpact, dynamo.EventBounce, dynamo.EventRest} {
		if ev.String() == name {
			return ev
		}
	}
	return 0
}
