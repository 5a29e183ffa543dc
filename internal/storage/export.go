package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Engine   string             `json:"engine"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Labels   []string           `json:"labels"`
	Params   map[string]float64 `json:"params"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Energy   []float64          `json:"total_energy"`
	Events   []eventLine        `json:"events"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(rec *Recording) ExportData {
	data := ExportData{
		Engine:   rec.Meta.Engine,
		Dt:       rec.Meta.Dt,
		Duration: rec.Meta.Duration,
		Steps:    len(rec.Times),
		Labels:   rec.Meta.Labels,
		Params:   rec.Meta.Params,
		Times:    rec.Times,
		States:   make([][]float64, len(rec.States)),
		Energy:   make([]float64, len(rec.Energies)),
		Events:   make([]eventLine, len(rec.Events)),
		Metrics:  rec.Meta.Metrics,
	}

	for i, s := range rec.States {
		data.States[i] = s
	}
	for i, d := range rec.Energies {
		data.Energy[i] = d.TotalEnergy
	}
	for i, ev := range rec.Events {
		data.Events[i] = eventLine{Time: ev.Time, Event: ev.Event.String()}
	}
	return data
}

// WriteJSON encodes a recording as indented JSON.
func WriteJSON(w io.Writer, rec *Recording) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(rec))
}

func ExportJSON(path string, rec *Recording) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, rec); err != nil {
		return err
	}
	return file.Close()
}
